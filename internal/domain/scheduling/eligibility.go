package scheduling

// Ineligibility says why a worker cannot take a window. Checks run in the
// order of the constants and stop at the first failure.
type Ineligibility int

const (
	Eligible Ineligibility = iota
	NotCapable
	NoShift
	AmbiguousShift
	OutsideShift
	BreakConflict
	BookingConflict
)

func (r Ineligibility) Code() string {
	switch r {
	case Eligible:
		return ""
	case NotCapable:
		return "worker_cannot_perform_service"
	case NoShift, AmbiguousShift:
		return "worker_has_no_shift"
	case OutsideShift:
		return "outside_shift"
	case BreakConflict:
		return "break_conflict"
	default:
		return "slot_unavailable"
	}
}

// CheckWorker evaluates one worker against the window it would occupy.
// window must already carry the worker's effective duration.
func (d *Day) CheckWorker(w Worker, serviceID uint, window Interval, excludeID *uint) Ineligibility {
	// 1. capability
	if !w.CanServe || !d.CanPerform(w.ID, serviceID) {
		return NotCapable
	}

	// 2. shift coverage
	shifts := d.shifts[w.ID]
	switch {
	case len(shifts) == 0:
		return NoShift
	case len(shifts) > 1:
		return AmbiguousShift
	}
	shift := shifts[0]
	if !shift.Window.Contains(window) {
		return OutsideShift
	}

	// 3. breaks
	for _, br := range shift.Breaks {
		if br.Overlaps(window) {
			return BreakConflict
		}
	}

	// 4. existing reservations
	for _, b := range d.bookings[w.ID] {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if d.occupied(b).Overlaps(window) {
			return BookingConflict
		}
	}

	return Eligible
}

// IsWorkerEligible is CheckWorker reduced to a yes/no.
func (d *Day) IsWorkerEligible(w Worker, serviceID uint, window Interval) bool {
	return d.CheckWorker(w, serviceID, window, nil) == Eligible
}
