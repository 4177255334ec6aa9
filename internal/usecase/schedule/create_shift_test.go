package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

func newCreateShift(t *testing.T) (*CreateShift, *memory.Repository, models.User) {
	t.Helper()
	repo := memory.New()
	company := repo.AddCompany(models.Company{Name: "Studio", Slug: "studio"})
	worker := repo.AddWorker(models.User{CompanyID: company.ID, Name: "Ana", Email: "ana@example.com", Active: true, CanServe: true})

	d := audit.NewDispatcher(audit.WriterFunc(func(audit.Event) error { return nil }), zap.NewNop())
	t.Cleanup(d.Close)

	return NewCreateShift(repo, nil, d, zap.NewNop()), repo, worker
}

func TestCreateShift(t *testing.T) {
	uc, repo, worker := newCreateShift(t)

	shift, err := uc.Execute(context.Background(), CreateShiftInput{
		CompanyID: worker.CompanyID,
		WorkerID:  worker.ID,
		Date:      "2026-03-02",
		StartTime: "9:00",
		EndTime:   "17:00",
		Breaks:    []BreakInput{{StartTime: "12:00", EndTime: "13:00"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "09:00", shift.StartTime)
	require.Len(t, shift.Breaks, 1)

	stored, err := repo.FindShift(context.Background(), worker.ID, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, shift.ID, stored.ID)
}

func TestCreateShift_SecondShiftSameDateRejected(t *testing.T) {
	uc, _, worker := newCreateShift(t)
	in := CreateShiftInput{
		CompanyID: worker.CompanyID,
		WorkerID:  worker.ID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "12:00",
	}

	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	in.StartTime, in.EndTime = "14:00", "18:00"
	_, err = uc.Execute(context.Background(), in)
	require.Error(t, err)
	assert.True(t, httperr.IsConflict(err))

	in.Date = "2026-03-03"
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateShift_Validation(t *testing.T) {
	uc, _, worker := newCreateShift(t)

	tests := []struct {
		name string
		in   CreateShiftInput
		code string
	}{
		{"unknown worker", CreateShiftInput{CompanyID: worker.CompanyID, WorkerID: 999, Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00"}, "worker_not_found"},
		{"bad date", CreateShiftInput{CompanyID: worker.CompanyID, WorkerID: worker.ID, Date: "02-03-2026", StartTime: "09:00", EndTime: "17:00"}, "invalid_date"},
		{"inverted window", CreateShiftInput{CompanyID: worker.CompanyID, WorkerID: worker.ID, Date: "2026-03-02", StartTime: "17:00", EndTime: "09:00"}, "invalid_shift_window"},
		{"cross midnight", CreateShiftInput{CompanyID: worker.CompanyID, WorkerID: worker.ID, Date: "2026-03-02", StartTime: "22:00", EndTime: "02:00"}, "invalid_shift_window"},
		{"break outside", CreateShiftInput{
			CompanyID: worker.CompanyID, WorkerID: worker.ID, Date: "2026-03-02", StartTime: "09:00", EndTime: "12:00",
			Breaks: []BreakInput{{StartTime: "11:30", EndTime: "12:30"}},
		}, "break_outside_shift"},
		{"overlapping breaks", CreateShiftInput{
			CompanyID: worker.CompanyID, WorkerID: worker.ID, Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00",
			Breaks: []BreakInput{{StartTime: "12:00", EndTime: "13:00"}, {StartTime: "12:30", EndTime: "13:30"}},
		}, "overlapping_breaks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}

type failingInvalidator struct{}

func (failingInvalidator) Invalidate(context.Context, uint, string) error {
	return errors.New("redis: connection refused")
}

func TestCreateShift_InvalidationFailureIsLogged(t *testing.T) {
	_, repo, worker := newCreateShift(t)
	core, logs := observer.New(zapcore.WarnLevel)

	d := audit.NewDispatcher(audit.WriterFunc(func(audit.Event) error { return nil }), zap.NewNop())
	t.Cleanup(d.Close)
	uc := NewCreateShift(repo, failingInvalidator{}, d, zap.New(core))

	_, err := uc.Execute(context.Background(), CreateShiftInput{
		CompanyID: worker.CompanyID,
		WorkerID:  worker.ID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("availability cache invalidation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-03-02", entries[0].ContextMap()["date"])
}
