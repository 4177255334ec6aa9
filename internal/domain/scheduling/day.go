package scheduling

import "sort"

type Worker struct {
	ID        uint
	Active    bool
	CanServe  bool
	IsTrainee bool
}

type Assignment struct {
	WorkerID   uint
	ServiceID  uint
	CanPerform bool
}

type ShiftWindow struct {
	ID       uint
	WorkerID uint
	Window   Interval
	Breaks   []Interval
}

type Booking struct {
	ID        uint
	ServiceID uint
	WorkerID  *uint
	Start     Clock
	Status    Status
}

type ServiceSpec struct {
	ID              uint
	DurationMinutes int
}

// DayInput is everything the engine needs for one company and one date,
// bulk-loaded by the caller.
type DayInput struct {
	Date                  string
	WorkingHours          *Interval
	AnchorIntervalMinutes int
	TraineeExtraMinutes   int

	Workers     []Worker
	Assignments []Assignment
	Shifts      []ShiftWindow
	Bookings    []Booking

	// ServiceDurations maps service id to base duration for every service
	// referenced by Bookings.
	ServiceDurations map[uint]int

	// Diagnostics found while converting stored rows.
	Diagnostics []Diagnostic
}

// Day is the worker-indexed snapshot the engine evaluates against.
// It is read-only once built.
type Day struct {
	date           string
	working        *Interval
	anchorInterval int
	traineeExtra   int

	workers      []Worker
	workerByID   map[uint]Worker
	capabilities map[uint]map[uint]bool
	shifts       map[uint][]ShiftWindow
	bookings     map[uint][]Booking
	unclaimed    []Booking
	durations    map[uint]int

	diagnostics []Diagnostic
}

func NewDay(in DayInput) *Day {
	d := &Day{
		date:           in.Date,
		working:        in.WorkingHours,
		anchorInterval: in.AnchorIntervalMinutes,
		traineeExtra:   in.TraineeExtraMinutes,
		workerByID:     make(map[uint]Worker, len(in.Workers)),
		capabilities:   make(map[uint]map[uint]bool),
		shifts:         make(map[uint][]ShiftWindow),
		bookings:       make(map[uint][]Booking),
		durations:      make(map[uint]int, len(in.ServiceDurations)),
		diagnostics:    append([]Diagnostic(nil), in.Diagnostics...),
	}

	if d.anchorInterval <= 0 {
		d.anchorInterval = DefaultAnchorIntervalMinutes
	}
	if d.traineeExtra < 0 {
		d.traineeExtra = 0
	}

	d.workers = append(d.workers, in.Workers...)
	sort.Slice(d.workers, func(i, j int) bool { return d.workers[i].ID < d.workers[j].ID })
	for _, w := range d.workers {
		d.workerByID[w.ID] = w
	}

	for _, a := range in.Assignments {
		if !a.CanPerform {
			continue
		}
		if d.capabilities[a.WorkerID] == nil {
			d.capabilities[a.WorkerID] = make(map[uint]bool)
		}
		d.capabilities[a.WorkerID][a.ServiceID] = true
	}

	for _, s := range in.Shifts {
		if !s.Window.Valid() {
			d.diagnose(DiagnosticInvalidShift, s.WorkerID, s.ID, s.Window.String())
			continue
		}
		d.shifts[s.WorkerID] = append(d.shifts[s.WorkerID], s)
	}
	for workerID, list := range d.shifts {
		if len(list) > 1 {
			d.diagnose(DiagnosticDuplicateShift, workerID, list[1].ID, d.date)
		}
	}

	for id, minutes := range in.ServiceDurations {
		d.durations[id] = minutes
	}

	for _, b := range in.Bookings {
		if !b.Status.IsActive() {
			continue
		}
		if _, ok := d.durations[b.ServiceID]; !ok {
			d.diagnose(DiagnosticUnknownService, 0, b.ID, "")
		}
		if b.WorkerID == nil {
			d.unclaimed = append(d.unclaimed, b)
			continue
		}
		d.bookings[*b.WorkerID] = append(d.bookings[*b.WorkerID], b)
	}

	return d
}

func (d *Day) Date() string {
	return d.date
}

// WorkingWindow returns the company's open window; false means closed.
func (d *Day) WorkingWindow() (Interval, bool) {
	if d.working == nil || !d.working.Valid() {
		return Interval{}, false
	}
	return *d.working, true
}

func (d *Day) AnchorInterval() int {
	return d.anchorInterval
}

func (d *Day) TraineeExtraMinutes() int {
	return d.traineeExtra
}

func (d *Day) Diagnostics() []Diagnostic {
	return d.diagnostics
}

func (d *Day) Worker(id uint) (Worker, bool) {
	w, ok := d.workerByID[id]
	return w, ok
}

func (d *Day) CanPerform(workerID, serviceID uint) bool {
	return d.capabilities[workerID][serviceID]
}

// CandidateWorkers lists active, serving workers granted the service,
// ordered by id and optionally narrowed to one worker.
func (d *Day) CandidateWorkers(serviceID uint, only *uint) []Worker {
	var out []Worker
	for _, w := range d.workers {
		if only != nil && w.ID != *only {
			continue
		}
		if !w.Active || !w.CanServe || !d.CanPerform(w.ID, serviceID) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// WindowFor is the interval worker w would occupy for service starting at start.
func (d *Day) WindowFor(w Worker, service ServiceSpec, start Clock) Interval {
	return NewInterval(start, EffectiveDuration(service.DurationMinutes, w.IsTrainee, d.traineeExtra))
}

// occupied returns the interval an existing booking blocks. A booking whose
// service is unknown blocks the rest of the day.
func (d *Day) occupied(b Booking) Interval {
	base, ok := d.durations[b.ServiceID]
	if !ok {
		return Interval{Start: b.Start, End: MinutesPerDay}
	}

	trainee := false
	if b.WorkerID != nil {
		if w, found := d.workerByID[*b.WorkerID]; found {
			trainee = w.IsTrainee
		}
	}
	return NewInterval(b.Start, EffectiveDuration(base, trainee, d.traineeExtra))
}

// ReservationEnds yields start + effective duration for every active booking
// whose service is known.
func (d *Day) ReservationEnds() []Clock {
	var ends []Clock
	each := func(b Booking) {
		if _, ok := d.durations[b.ServiceID]; ok {
			ends = append(ends, d.occupied(b).End)
		}
	}
	for _, list := range d.bookings {
		for _, b := range list {
			each(b)
		}
	}
	for _, b := range d.unclaimed {
		each(b)
	}
	return ends
}

// Occupied lists every active booking of the day as a conflict-check input.
func (d *Day) Occupied() []Occupied {
	var out []Occupied
	add := func(b Booking) {
		out = append(out, Occupied{
			ReservationID: b.ID,
			WorkerID:      b.WorkerID,
			Window:        d.occupied(b),
			Status:        b.Status,
		})
	}
	for _, list := range d.bookings {
		for _, b := range list {
			add(b)
		}
	}
	for _, b := range d.unclaimed {
		add(b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationID < out[j].ReservationID })
	return out
}

func (d *Day) diagnose(kind DiagnosticKind, workerID, refID uint, detail string) {
	d.diagnostics = append(d.diagnostics, Diagnostic{
		Kind:     kind,
		Date:     d.date,
		WorkerID: workerID,
		RefID:    refID,
		Detail:   detail,
	})
}
