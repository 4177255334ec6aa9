package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

func (f *fixture) book(t *testing.T, serviceID uint, workerID *uint, start string) *models.Reservation {
	t.Helper()
	r, err := f.reserve().Execute(context.Background(), f.input(serviceID, workerID, start))
	require.NoError(t, err)
	return r
}

// ======================================================
// Reschedule
// ======================================================

func (f *fixture) reschedule() *Reschedule {
	uc := NewReschedule(f.repo, f.inv, f.audit, zap.NewNop())
	uc.now = func() time.Time { return frozenNow }
	return uc
}

func TestReschedule_OverlappingItsOwnWindow(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, f.cut.ID, &f.ana.ID, "09:00")

	moved, err := f.reschedule().Execute(context.Background(), RescheduleInput{
		CompanyID: f.company.ID, ReservationID: r.ID, Date: monday, StartTime: "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:30", moved.StartTime)
	assert.Equal(t, "10:30", moved.EndTime)
	assert.Equal(t, f.ana.ID, *moved.WorkerID)
}

func TestReschedule_IntoAnotherBooking(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, f.cut.ID, &f.ana.ID, "09:00")
	f.book(t, f.cut.ID, &f.ana.ID, "14:00")

	_, err := f.reschedule().Execute(context.Background(), RescheduleInput{
		CompanyID: f.company.ID, ReservationID: r.ID, Date: monday, StartTime: "13:30",
	})
	assert.True(t, httperr.IsConflict(err))
}

func TestReschedule_ToAnotherWorkerAndDay(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, f.cut.ID, &f.ana.ID, "09:00")

	const nextMonday = "2026-03-09"
	f.repo.AddShift(models.Shift{CompanyID: f.company.ID, WorkerID: f.bia.ID, Date: nextMonday, StartTime: "09:00", EndTime: "17:00"})

	moved, err := f.reschedule().Execute(context.Background(), RescheduleInput{
		CompanyID: f.company.ID, ReservationID: r.ID, Date: nextMonday, StartTime: "10:00", WorkerID: &f.bia.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, nextMonday, moved.Date)
	assert.Equal(t, f.bia.ID, *moved.WorkerID)
	assert.Equal(t, "11:15", moved.EndTime)
	assert.Contains(t, f.inv.dates, nextMonday)
}

func TestReschedule_TerminalReservation(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, f.cut.ID, &f.ana.ID, "09:00")
	_, err := f.transition().Execute(context.Background(), f.company.ID, r.ID, scheduling.ActionCancel, nil)
	require.NoError(t, err)

	_, err = f.reschedule().Execute(context.Background(), RescheduleInput{
		CompanyID: f.company.ID, ReservationID: r.ID, Date: monday, StartTime: "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

// ======================================================
// Transition
// ======================================================

func (f *fixture) transition() *Transition {
	uc := NewTransition(f.repo, f.inv, f.audit, zap.NewNop())
	uc.now = func() time.Time { return frozenNow }
	return uc
}

func TestTransition_ForwardOnly(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, f.cut.ID, &f.ana.ID, "09:00")
	uc := f.transition()
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.company.ID, r.ID, scheduling.ActionComplete, nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	for _, a := range []scheduling.Action{scheduling.ActionAccept, scheduling.ActionStart, scheduling.ActionComplete} {
		_, err := uc.Execute(ctx, f.company.ID, r.ID, a, nil)
		require.NoError(t, err, a)
	}

	done, err := f.repo.GetReservation(ctx, f.company.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, string(scheduling.StatusDone), done.Status)
	assert.NotNil(t, done.AcceptedAt)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)

	_, err = uc.Execute(ctx, f.company.ID, r.ID, scheduling.ActionCancel, nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestTransition_CancelFreesWindow(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, f.cut.ID, &f.ana.ID, "09:00")

	cancelled, err := f.transition().Execute(context.Background(), f.company.ID, r.ID, scheduling.ActionCancel, nil)
	require.NoError(t, err)
	assert.Equal(t, string(scheduling.StatusCancelled), cancelled.Status)

	again := f.book(t, f.cut.ID, &f.ana.ID, "09:00")
	assert.NotEqual(t, r.ID, again.ID)
}

func TestTransition_UnknownReservation(t *testing.T) {
	f := newFixture(t)
	_, err := f.transition().Execute(context.Background(), f.company.ID, 999, scheduling.ActionAccept, nil)
	assert.True(t, httperr.IsBusiness(err, "reservation_not_found"))
}

// ======================================================
// Claim
// ======================================================

func TestClaim_BindsWorker(t *testing.T) {
	f := newFixture(t)
	orphan := f.repo.AddReservation(models.Reservation{
		CompanyID: f.company.ID, ServiceID: f.trim.ID, CustomerID: 1,
		Date: monday, StartTime: "15:00", EndTime: "15:30",
	})
	uc := NewClaimReservation(f.repo, f.inv, f.audit, zap.NewNop())

	claimed, err := uc.Execute(context.Background(), f.company.ID, orphan.ID, f.bia.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.WorkerID)
	assert.Equal(t, f.bia.ID, *claimed.WorkerID)
	assert.Equal(t, "15:45", claimed.EndTime)

	_, err = uc.Execute(context.Background(), f.company.ID, orphan.ID, f.ana.ID)
	assert.True(t, httperr.IsBusiness(err, "already_claimed"))
}

func TestClaim_WorkerBusy(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.cut.ID, &f.ana.ID, "15:00")
	orphan := f.repo.AddReservation(models.Reservation{
		CompanyID: f.company.ID, ServiceID: f.trim.ID, CustomerID: 1,
		Date: monday, StartTime: "15:30", EndTime: "16:00",
	})

	_, err := NewClaimReservation(f.repo, f.inv, f.audit, zap.NewNop()).
		Execute(context.Background(), f.company.ID, orphan.ID, f.ana.ID)
	assert.True(t, httperr.IsConflict(err))
}

// ======================================================
// ListByDate
// ======================================================

func TestListByDate(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.cut.ID, &f.ana.ID, "14:00")
	f.book(t, f.cut.ID, &f.bia.ID, "09:00")
	f.book(t, f.trim.ID, &f.ana.ID, "09:00")

	uc := NewListByDate(f.repo)

	all, err := uc.Execute(context.Background(), f.company.ID, monday, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "09:00", all[0].StartTime)
	assert.Equal(t, "14:00", all[2].StartTime)

	anas, err := uc.Execute(context.Background(), f.company.ID, monday, &f.ana.ID)
	require.NoError(t, err)
	assert.Len(t, anas, 2)

	empty, err := uc.Execute(context.Background(), f.company.ID, "2026-03-03", nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = uc.Execute(context.Background(), f.company.ID, "tomorrow", nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

// ======================================================
// ListByMonth
// ======================================================

func TestListByMonth(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.cut.ID, &f.ana.ID, "14:00")
	f.book(t, f.cut.ID, &f.bia.ID, "09:00")
	f.repo.AddReservation(models.Reservation{
		CompanyID: f.company.ID, ServiceID: f.cut.ID, WorkerID: &f.ana.ID,
		Date: "2026-04-01", StartTime: "09:00", EndTime: "10:00",
	})

	uc := NewListByMonth(f.repo)

	march, err := uc.Execute(context.Background(), f.company.ID, f.ana.ID, 2026, 3)
	require.NoError(t, err)
	require.Len(t, march, 1)
	assert.Equal(t, "14:00", march[0].StartTime)

	feb, err := uc.Execute(context.Background(), f.company.ID, f.ana.ID, 2026, 2)
	require.NoError(t, err)
	assert.NotNil(t, feb)
	assert.Empty(t, feb)

	_, err = uc.Execute(context.Background(), f.company.ID, f.ana.ID, 2026, 13)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))

	_, err = uc.Execute(context.Background(), 999, f.ana.ID, 2026, 3)
	assert.True(t, httperr.IsBusiness(err, "company_not_found"))
}

// ======================================================
// Cache invalidation
// ======================================================

type failingInvalidator struct{}

func (failingInvalidator) Invalidate(context.Context, uint, string) error {
	return errors.New("redis: connection refused")
}

func TestInvalidateDates_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	InvalidateDates(context.Background(), failingInvalidator{}, zap.New(core), 7, "2026-03-02", "2026-03-03")

	entries := logs.FilterMessage("availability cache invalidation failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-03-02", entries[0].ContextMap()["date"])
	assert.EqualValues(t, 7, entries[0].ContextMap()["company_id"])

	// nil invalidator is a no-op
	InvalidateDates(context.Background(), nil, zap.New(core), 7, "2026-03-02")
	assert.Equal(t, 2, logs.Len())
}
