package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// 2026-03-02 is a Monday; the clock is frozen the day before.
const monday = "2026-03-02"

var frozenNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *memory.Repository
	company models.Company
	cut     models.Service
	trim    models.Service
	ana     models.User
	bia     models.User
	inv     *recordingInvalidator
	audit   *audit.Dispatcher
	events  *eventLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.New()

	company := repo.AddCompany(models.Company{
		Name:                      "Studio",
		Slug:                      "studio",
		Timezone:                  "UTC",
		SlotAnchorIntervalMinutes: 30,
		TraineeExtraMinutes:       15,
		MinAdvanceMinutes:         120,
	})
	cut := repo.AddService(models.Service{CompanyID: company.ID, Name: "Cut", DurationMinutes: 60, IsActive: true})
	trim := repo.AddService(models.Service{CompanyID: company.ID, Name: "Trim", DurationMinutes: 30, IsActive: true})

	ana := repo.AddWorker(models.User{CompanyID: company.ID, Name: "Ana", Email: "ana@example.com", Active: true, CanServe: true})
	bia := repo.AddWorker(models.User{CompanyID: company.ID, Name: "Bia", Email: "bia@example.com", Active: true, CanServe: true, IsTrainee: true})

	for _, w := range []models.User{ana, bia} {
		repo.Grant(w.ID, cut.ID)
		repo.Grant(w.ID, trim.ID)
		repo.AddShift(models.Shift{
			CompanyID: company.ID, WorkerID: w.ID, Date: monday, StartTime: "09:00", EndTime: "17:00",
			Breaks: []models.Break{{StartTime: "12:00", EndTime: "13:00"}},
		})
	}
	repo.SetWorkingHours(company.ID, int(time.Monday), "09:00", "17:00")

	events := &eventLog{}
	d := audit.NewDispatcher(audit.WriterFunc(events.write), zap.NewNop())
	t.Cleanup(d.Close)

	return &fixture{
		repo:    repo,
		company: company,
		cut:     cut,
		trim:    trim,
		ana:     ana,
		bia:     bia,
		inv:     &recordingInvalidator{},
		audit:   d,
		events:  events,
	}
}

func (f *fixture) reserve() *ValidateAndReserve {
	uc := NewValidateAndReserve(f.repo, f.inv, f.audit, zap.NewNop())
	uc.now = func() time.Time { return frozenNow }
	return uc
}

func (f *fixture) input(serviceID uint, workerID *uint, start string) ReserveInput {
	return ReserveInput{
		CompanyID:     f.company.ID,
		ServiceID:     serviceID,
		WorkerID:      workerID,
		Date:          monday,
		StartTime:     start,
		CustomerName:  "Carla",
		CustomerPhone: "+5511999990000",
	}
}

type recordingInvalidator struct {
	mu    sync.Mutex
	dates []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, _ uint, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	return nil
}

type eventLog struct {
	mu      sync.Mutex
	actions []string
}

func (e *eventLog) write(ev audit.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions = append(e.actions, ev.Action)
	return nil
}

// failingInsertRepo makes every reservation write hit the unique index.
type failingInsertRepo struct {
	*memory.Repository
}

func (r failingInsertRepo) CreateReservation(context.Context, *models.Reservation) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: models.ActiveSlotIndex}
}

func (r failingInsertRepo) WithinWorkerDay(
	ctx context.Context,
	companyID uint,
	workerID *uint,
	date string,
	fn func(tx scheduling.Repository) error,
) error {
	return r.Repository.WithinWorkerDay(ctx, companyID, workerID, date, func(scheduling.Repository) error {
		return fn(r)
	})
}
