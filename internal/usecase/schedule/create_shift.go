package schedule

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/reservation"
)

// ======================================================
// INPUT
// ======================================================

type BreakInput struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CreateShiftInput struct {
	CompanyID uint
	WorkerID  uint
	Date      string
	StartTime string
	EndTime   string
	Breaks    []BreakInput
	ActorID   *uint
}

// ======================================================
// USE CASE
// ======================================================

// CreateShift stores a worker's shift for one date. A worker has at most one
// shift per date; a second one is rejected as a conflict.
type CreateShift struct {
	repo        scheduling.Repository
	invalidator reservation.Invalidator
	audit       *audit.Dispatcher
	log         *zap.Logger
}

func NewCreateShift(
	repo scheduling.Repository,
	invalidator reservation.Invalidator,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CreateShift {
	return &CreateShift{
		repo:        repo,
		invalidator: invalidator,
		audit:       audit,
		log:         log,
	}
}

func (uc *CreateShift) Execute(
	ctx context.Context,
	in CreateShiftInput,
) (*models.Shift, error) {

	// --------------------------------------------------
	// 1. Worker + date
	// --------------------------------------------------
	if _, err := uc.repo.GetWorker(ctx, in.CompanyID, in.WorkerID); err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("worker_not_found")
		}
		return nil, err
	}

	date, err := scheduling.ParseDate(in.Date, time.UTC)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	dateStr := date.Format(scheduling.DateLayout)

	// --------------------------------------------------
	// 2. Window + breaks
	// --------------------------------------------------
	window, err := scheduling.ParseInterval(in.StartTime, in.EndTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_shift_window")
	}

	breaks := make([]scheduling.Interval, 0, len(in.Breaks))
	for _, b := range in.Breaks {
		br, err := scheduling.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_break_window")
		}
		breaks = append(breaks, br)
	}

	if err := scheduling.ValidateShift(window, breaks); err != nil {
		return nil, err
	}

	shift := &models.Shift{
		CompanyID: in.CompanyID,
		WorkerID:  in.WorkerID,
		Date:      dateStr,
		StartTime: window.Start.String(),
		EndTime:   window.End.String(),
	}
	for _, br := range breaks {
		shift.Breaks = append(shift.Breaks, models.Break{
			StartTime: br.Start.String(),
			EndTime:   br.End.String(),
		})
	}

	// --------------------------------------------------
	// 3. One shift per worker per date
	// --------------------------------------------------
	workerID := in.WorkerID
	err = uc.repo.WithinWorkerDay(ctx, in.CompanyID, &workerID, dateStr, func(tx scheduling.Repository) error {
		existing, err := tx.FindShift(ctx, in.WorkerID, dateStr)
		if err != nil {
			return err
		}
		if existing != nil {
			return httperr.ErrConflict("shift_already_exists")
		}

		if err := tx.CreateShift(ctx, shift); err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrConflict("shift_already_exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reservation.InvalidateDates(ctx, uc.invalidator, uc.log, in.CompanyID, dateStr)

	uc.audit.Dispatch(audit.Event{
		CompanyID: in.CompanyID,
		UserID:    in.ActorID,
		Action:    "shift_created",
		Entity:    "shift",
		EntityID:  &shift.ID,
		Metadata: map[string]any{
			"worker_id": in.WorkerID,
			"date":      dateStr,
		},
	})

	return shift, nil
}
