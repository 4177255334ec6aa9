package reservation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/availability"
)

type RescheduleInput struct {
	CompanyID     uint
	ReservationID uint
	Date          string
	StartTime     string
	// WorkerID moves the reservation to another worker; nil keeps the current one.
	WorkerID *uint
	ActorID  *uint
}

type Reschedule struct {
	repo        scheduling.Repository
	invalidator Invalidator
	audit       *audit.Dispatcher
	log         *zap.Logger
	now         func() time.Time
}

func NewReschedule(
	repo scheduling.Repository,
	invalidator Invalidator,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *Reschedule {
	return &Reschedule{
		repo:        repo,
		invalidator: invalidator,
		audit:       audit,
		log:         log,
		now:         time.Now,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Reservation, error) {

	company, err := getCompany(ctx, uc.repo, in.CompanyID)
	if err != nil {
		return nil, err
	}

	current, err := getReservation(ctx, uc.repo, in.CompanyID, in.ReservationID)
	if err != nil {
		return nil, err
	}
	if !scheduling.Status(current.Status).IsActive() {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	date, start, loc, err := parseSlot(company, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, company.ID, current.ServiceID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}

	req := slotRequest{company: company, service: service, loc: loc, date: date, start: start}
	if err := checkAdvance(req, uc.now()); err != nil {
		return nil, err
	}

	target := current.WorkerID
	if in.WorkerID != nil {
		target = in.WorkerID
	}

	previousDate := current.Date
	var updated *models.Reservation

	// --------------------------------------------------
	// Re-check excluding the reservation being moved
	// --------------------------------------------------
	err = uc.repo.WithinWorkerDay(ctx, company.ID, target, req.dateString(), func(tx scheduling.Repository) error {
		r, err := getReservation(ctx, tx, company.ID, in.ReservationID)
		if err != nil {
			return err
		}
		if !scheduling.Status(r.Status).IsActive() {
			return httperr.ErrBusiness("invalid_state")
		}

		day, err := scheduling.LoadDay(ctx, tx, company, service.ID, date)
		if err != nil {
			return err
		}
		availability.LogDiagnostics(uc.log, company.ID, day)

		spec := req.spec()
		if err := withinWorkingHours(day, spec, start); err != nil {
			return err
		}

		window := scheduling.NewInterval(start, spec.DurationMinutes)
		if target != nil {
			w, err := checkBoundWorker(day, *target, spec, start, &r.ID)
			if err != nil {
				return err
			}
			window = day.WindowFor(w, spec, start)
		} else {
			// Unclaimed: the company as a whole must have the window free
			// and someone able to take it.
			if scheduling.HasConflict(day.Occupied(), nil, window, &r.ID) {
				return httperr.ErrConflict("slot_unavailable")
			}
			if _, ok := scheduling.PickWorker(day, spec, start); !ok {
				return httperr.ErrConflict("slot_unavailable")
			}
		}

		r.WorkerID = target
		r.Date = req.dateString()
		r.StartTime = window.Start.String()
		r.EndTime = window.End.String()
		r.Worker = nil

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return storageConflict(err)
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateDates(ctx, uc.invalidator, uc.log, company.ID, previousDate, updated.Date)

	uc.audit.Dispatch(audit.Event{
		CompanyID: company.ID,
		UserID:    in.ActorID,
		Action:    "reservation_rescheduled",
		Entity:    "reservation",
		EntityID:  &updated.ID,
		Metadata: map[string]any{
			"from_date": previousDate,
			"date":      updated.Date,
			"start":     updated.StartTime,
		},
	})

	return updated, nil
}
