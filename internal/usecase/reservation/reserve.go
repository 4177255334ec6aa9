package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/metrics"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/availability"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	CompanyID uint
	ServiceID uint
	// WorkerID nil lets the company pick: non-trainees first, then lowest id.
	WorkerID *uint

	Date      string
	StartTime string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string

	// ActorID is the authenticated member creating the booking, if any.
	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type ValidateAndReserve struct {
	repo        scheduling.Repository
	invalidator Invalidator
	audit       *audit.Dispatcher
	log         *zap.Logger
	now         func() time.Time
}

func NewValidateAndReserve(
	repo scheduling.Repository,
	invalidator Invalidator,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *ValidateAndReserve {
	return &ValidateAndReserve{
		repo:        repo,
		invalidator: invalidator,
		audit:       audit,
		log:         log,
		now:         time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ValidateAndReserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	company, err := getCompany(ctx, uc.repo, in.CompanyID)
	if err != nil {
		return nil, err
	}

	date, start, loc, err := parseSlot(company, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}

	if in.CustomerName == "" || in.CustomerPhone == "" {
		return nil, httperr.ErrBusiness("customer_required")
	}

	service, err := getActiveService(ctx, uc.repo, in.CompanyID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	req := slotRequest{company: company, service: service, loc: loc, date: date, start: start}
	if err := checkAdvance(req, uc.now()); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Re-validate and insert under the worker-day lock
	// --------------------------------------------------
	var created *models.Reservation

	err = uc.repo.WithinWorkerDay(ctx, company.ID, in.WorkerID, req.dateString(), func(tx scheduling.Repository) error {
		day, err := scheduling.LoadDay(ctx, tx, company, service.ID, date)
		if err != nil {
			return err
		}
		availability.LogDiagnostics(uc.log, company.ID, day)

		spec := req.spec()
		if err := withinWorkingHours(day, spec, start); err != nil {
			return err
		}

		var worker scheduling.Worker
		if in.WorkerID == nil {
			picked, ok := scheduling.PickWorker(day, spec, start)
			if !ok {
				metrics.IncConflict("eligibility")
				return httperr.ErrConflict("slot_unavailable")
			}
			worker = picked
		} else {
			worker, err = checkBoundWorker(day, *in.WorkerID, spec, start, nil)
			if err != nil {
				return err
			}
		}

		window := day.WindowFor(worker, spec, start)
		if scheduling.HasConflict(day.Occupied(), &worker.ID, window, nil) {
			metrics.IncConflict("overlap")
			return httperr.ErrConflict("slot_unavailable")
		}

		customer, err := tx.GetOrCreateCustomer(ctx, company.ID, in.CustomerName, in.CustomerPhone, in.CustomerEmail)
		if err != nil {
			return err
		}

		workerID := worker.ID
		r := &models.Reservation{
			Code:       uuid.NewString(),
			CompanyID:  company.ID,
			ServiceID:  service.ID,
			WorkerID:   &workerID,
			CustomerID: customer.ID,
			Date:       req.dateString(),
			StartTime:  window.Start.String(),
			EndTime:    window.End.String(),
			Status:     string(scheduling.InitialStatus()),
			Notes:      in.Notes,
		}
		if err := tx.CreateReservation(ctx, r); err != nil {
			return storageConflict(err)
		}

		created = r
		return nil
	})
	if err != nil {
		if httperr.IsConflict(err) {
			uc.log.Info("reservation rejected",
				zap.Uint("company_id", company.ID),
				zap.String("date", req.dateString()),
				zap.String("start", start.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3. Side effects
	// --------------------------------------------------
	InvalidateDates(ctx, uc.invalidator, uc.log, company.ID, created.Date)
	metrics.IncReservationCreated()

	uc.audit.Dispatch(audit.Event{
		CompanyID: company.ID,
		UserID:    in.ActorID,
		Action:    "reservation_created",
		Entity:    "reservation",
		EntityID:  &created.ID,
		Metadata: map[string]any{
			"worker_id": created.WorkerID,
			"date":      created.Date,
			"start":     created.StartTime,
		},
	})

	return created, nil
}
