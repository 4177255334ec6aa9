// Package memory is an in-process scheduling.Repository used by use-case and
// handler tests. It mirrors the storage constraints the postgres repository
// relies on (one shift per worker per date, one active reservation per
// worker/date/start) and reports them as postgres unique violations.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

type Repository struct {
	// writeMu serialises WithinWorkerDay callbacks; mu guards the data.
	writeMu sync.Mutex
	mu      sync.RWMutex

	nextID uint

	companies    map[uint]models.Company
	services     map[uint]models.Service
	users        map[uint]models.User
	grants       []models.WorkerService
	workingHours []models.WorkingHours
	shifts       []models.Shift
	customers    []models.Customer
	reservations map[uint]models.Reservation

	// Err, when set, is returned by every read.
	Err error
}

func New() *Repository {
	return &Repository{
		companies:    make(map[uint]models.Company),
		services:     make(map[uint]models.Service),
		users:        make(map[uint]models.User),
		reservations: make(map[uint]models.Reservation),
	}
}

func (r *Repository) id() uint {
	r.nextID++
	return r.nextID
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ======================================================
// SEEDING
// ======================================================

func (r *Repository) AddCompany(c models.Company) models.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.id()
	}
	r.companies[c.ID] = c
	return c
}

func (r *Repository) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.id()
	}
	r.services[s.ID] = s
	return s
}

func (r *Repository) AddWorker(u models.User) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.id()
	}
	r.users[u.ID] = u
	return u
}

func (r *Repository) Grant(workerID, serviceID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants = append(r.grants, models.WorkerService{WorkerID: workerID, ServiceID: serviceID, CanPerform: true})
}

func (r *Repository) SetWorkingHours(companyID uint, weekday int, start, end string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, wh := range r.workingHours {
		if wh.CompanyID == companyID && wh.Weekday == weekday {
			r.workingHours[i].StartTime, r.workingHours[i].EndTime, r.workingHours[i].Active = start, end, true
			return
		}
	}
	r.workingHours = append(r.workingHours, models.WorkingHours{
		ID: r.id(), CompanyID: companyID, Weekday: weekday, StartTime: start, EndTime: end, Active: true,
	})
}

// AddShift stores a shift without the uniqueness check, for invariant tests.
func (r *Repository) AddShift(s models.Shift) models.Shift {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeShift(&s)
	return s
}

// AddReservation stores a reservation as is.
func (r *Repository) AddReservation(res models.Reservation) models.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.ID == 0 {
		res.ID = r.id()
	}
	if res.Status == "" {
		res.Status = string(scheduling.StatusPending)
	}
	r.reservations[res.ID] = res
	return res
}

// Reservations returns every stored reservation ordered by id.
func (r *Repository) Reservations() []models.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Reservation, 0, len(r.reservations))
	for _, res := range r.reservations {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ======================================================
// Company / Service / Roster
// ======================================================

func (r *Repository) GetCompanyByID(_ context.Context, id uint) (*models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.companies[id]
	if !ok {
		return nil, scheduling.ErrNotFound
	}
	return &c, nil
}

func (r *Repository) GetCompanyBySlug(_ context.Context, slug string) (*models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, c := range r.companies {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, scheduling.ErrNotFound
}

func (r *Repository) GetService(_ context.Context, companyID, serviceID uint) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.services[serviceID]
	if !ok || s.CompanyID != companyID {
		return nil, scheduling.ErrNotFound
	}
	return &s, nil
}

func (r *Repository) ListServiceDurations(_ context.Context, companyID uint, ids []uint) (map[uint]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make(map[uint]int, len(ids))
	for _, id := range ids {
		if s, ok := r.services[id]; ok && s.CompanyID == companyID {
			out[id] = s.DurationMinutes
		}
	}
	return out, nil
}

func (r *Repository) UpdateService(_ context.Context, s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.services[s.ID]; !ok || existing.CompanyID != s.CompanyID {
		return scheduling.ErrNotFound
	}
	r.services[s.ID] = *s
	return nil
}

func (r *Repository) ReviseService(_ context.Context, current, next *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.services[current.ID]
	if !ok || old.CompanyID != current.CompanyID || old.Version != current.Version || !old.IsActive {
		return scheduling.ErrNotFound
	}
	old.IsActive = false
	r.services[old.ID] = old

	next.ID = r.id()
	r.services[next.ID] = *next

	for _, g := range r.grants {
		if g.ServiceID == current.ID {
			g.ServiceID = next.ID
			r.grants = append(r.grants, g)
		}
	}
	return nil
}

func (r *Repository) GetWorker(_ context.Context, companyID, workerID uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[workerID]
	if !ok || u.CompanyID != companyID {
		return nil, scheduling.ErrNotFound
	}
	return &u, nil
}

func (r *Repository) ListWorkers(_ context.Context, companyID uint) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []models.User
	for _, u := range r.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) ListWorkerServiceAssignments(_ context.Context, serviceID uint) ([]models.WorkerService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []models.WorkerService
	for _, g := range r.grants {
		if g.ServiceID == serviceID {
			out = append(out, g)
		}
	}
	return out, nil
}

// ======================================================
// Calendar
// ======================================================

func (r *Repository) GetWorkingHours(_ context.Context, companyID uint, weekday int) (*models.WorkingHours, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, wh := range r.workingHours {
		if wh.CompanyID == companyID && wh.Weekday == weekday {
			return &wh, nil
		}
	}
	return nil, nil
}

func (r *Repository) ListShiftsForDate(_ context.Context, companyID uint, date string) ([]models.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []models.Shift
	for _, s := range r.shifts {
		if s.CompanyID == companyID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Repository) FindShift(_ context.Context, workerID uint, date string) (*models.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, s := range r.shifts {
		if s.WorkerID == workerID && s.Date == date {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *Repository) CreateShift(_ context.Context, s *models.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.shifts {
		if existing.WorkerID == s.WorkerID && existing.Date == s.Date {
			return uniqueViolation("idx_shift_worker_date")
		}
	}
	r.storeShift(s)
	return nil
}

func (r *Repository) storeShift(s *models.Shift) {
	if s.ID == 0 {
		s.ID = r.id()
	}
	for i := range s.Breaks {
		if s.Breaks[i].ID == 0 {
			s.Breaks[i].ID = r.id()
		}
		s.Breaks[i].ShiftID = s.ID
	}
	cp := *s
	cp.Breaks = append([]models.Break(nil), s.Breaks...)
	r.shifts = append(r.shifts, cp)
}

// ======================================================
// Customer
// ======================================================

func (r *Repository) GetOrCreateCustomer(_ context.Context, companyID uint, name, phone, email string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.CompanyID == companyID && c.Phone == phone {
			return &c, nil
		}
	}
	c := models.Customer{ID: r.id(), CompanyID: companyID, Name: name, Phone: phone, Email: email}
	r.customers = append(r.customers, c)
	return &c, nil
}

// ======================================================
// Reservation
// ======================================================

func (r *Repository) ListActiveReservations(_ context.Context, companyID uint, date string) ([]models.Reservation, error) {
	return r.filter(func(res models.Reservation) bool {
		return res.CompanyID == companyID && res.Date == date && scheduling.Status(res.Status).IsActive()
	})
}

func (r *Repository) ListReservationsForDate(_ context.Context, companyID uint, date string, workerID *uint) ([]models.Reservation, error) {
	return r.filter(func(res models.Reservation) bool {
		if res.CompanyID != companyID || res.Date != date {
			return false
		}
		return workerID == nil || (res.WorkerID != nil && *res.WorkerID == *workerID)
	})
}

func (r *Repository) ListReservationsForWorker(_ context.Context, companyID, workerID uint, from, to string) ([]models.Reservation, error) {
	return r.filter(func(res models.Reservation) bool {
		return res.CompanyID == companyID &&
			res.WorkerID != nil && *res.WorkerID == workerID &&
			res.Date >= from && res.Date <= to
	})
}

func (r *Repository) filter(keep func(models.Reservation) bool) ([]models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []models.Reservation
	for _, res := range r.reservations {
		if keep(res) {
			out = append(out, r.hydrate(res))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repository) hydrate(res models.Reservation) models.Reservation {
	res.Service = r.services[res.ServiceID]
	for _, c := range r.customers {
		if c.ID == res.CustomerID {
			res.Customer = c
		}
	}
	if res.WorkerID != nil {
		if u, ok := r.users[*res.WorkerID]; ok {
			res.Worker = &u
		}
	}
	return res
}

func (r *Repository) GetReservation(_ context.Context, companyID, id uint) (*models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	res, ok := r.reservations[id]
	if !ok || res.CompanyID != companyID {
		return nil, scheduling.ErrNotFound
	}
	res = r.hydrate(res)
	return &res, nil
}

func (r *Repository) CreateReservation(_ context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clashes(*res) {
		return uniqueViolation(models.ActiveSlotIndex)
	}
	res.ID = r.id()
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	r.reservations[res.ID] = *res
	return nil
}

func (r *Repository) UpdateReservation(_ context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[res.ID]; !ok {
		return scheduling.ErrNotFound
	}
	if r.clashes(*res) {
		return uniqueViolation(models.ActiveSlotIndex)
	}
	res.UpdatedAt = time.Now()
	r.reservations[res.ID] = *res
	return nil
}

// clashes mirrors the partial unique index on (worker_id, date, start_time).
func (r *Repository) clashes(res models.Reservation) bool {
	if res.WorkerID == nil || !scheduling.Status(res.Status).IsActive() {
		return false
	}
	for id, other := range r.reservations {
		if id == res.ID || other.WorkerID == nil || !scheduling.Status(other.Status).IsActive() {
			continue
		}
		if *other.WorkerID == *res.WorkerID && other.Date == res.Date && other.StartTime == res.StartTime {
			return true
		}
	}
	return false
}

// ======================================================
// Write serialisation
// ======================================================

// WithinWorkerDay serialises every callback. There is no rollback.
func (r *Repository) WithinWorkerDay(
	ctx context.Context,
	_ uint,
	_ *uint,
	_ string,
	fn func(tx scheduling.Repository) error,
) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return fn(r)
}

var _ scheduling.Repository = (*Repository)(nil)
