package reservation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/availability"
)

// ClaimReservation binds a worker to a reservation that has none, e.g. after
// its worker was removed from the company.
type ClaimReservation struct {
	repo        scheduling.Repository
	invalidator Invalidator
	audit       *audit.Dispatcher
	log         *zap.Logger
}

func NewClaimReservation(
	repo scheduling.Repository,
	invalidator Invalidator,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *ClaimReservation {
	return &ClaimReservation{
		repo:        repo,
		invalidator: invalidator,
		audit:       audit,
		log:         log,
	}
}

func (uc *ClaimReservation) Execute(
	ctx context.Context,
	companyID uint,
	reservationID uint,
	workerID uint,
) (*models.Reservation, error) {

	company, err := getCompany(ctx, uc.repo, companyID)
	if err != nil {
		return nil, err
	}

	r, err := getReservation(ctx, uc.repo, companyID, reservationID)
	if err != nil {
		return nil, err
	}

	var claimed *models.Reservation
	err = uc.repo.WithinWorkerDay(ctx, companyID, &workerID, r.Date, func(tx scheduling.Repository) error {
		locked, err := getReservation(ctx, tx, companyID, reservationID)
		if err != nil {
			return err
		}
		if !scheduling.Status(locked.Status).IsActive() {
			return httperr.ErrBusiness("invalid_state")
		}
		if locked.WorkerID != nil {
			return httperr.ErrBusiness("already_claimed")
		}

		service, err := tx.GetService(ctx, companyID, locked.ServiceID)
		if err != nil {
			if errors.Is(err, scheduling.ErrNotFound) {
				return httperr.ErrBusiness("service_not_found")
			}
			return err
		}

		start, err := scheduling.ParseClock(locked.StartTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_time")
		}
		date, err := scheduling.ParseDate(locked.Date, timezone.Location(company.Timezone))
		if err != nil {
			return httperr.ErrBusiness("invalid_date")
		}

		day, err := scheduling.LoadDay(ctx, tx, company, service.ID, date)
		if err != nil {
			return err
		}
		availability.LogDiagnostics(uc.log, companyID, day)

		spec := scheduling.ServiceSpec{ID: service.ID, DurationMinutes: service.DurationMinutes}
		w, err := checkBoundWorker(day, workerID, spec, start, &locked.ID)
		if err != nil {
			return err
		}

		window := day.WindowFor(w, spec, start)
		locked.WorkerID = &w.ID
		locked.EndTime = window.End.String()
		locked.Worker = nil

		if err := tx.UpdateReservation(ctx, locked); err != nil {
			return storageConflict(err)
		}
		claimed = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateDates(ctx, uc.invalidator, uc.log, companyID, claimed.Date)

	uc.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		UserID:    &workerID,
		Action:    "reservation_claimed",
		Entity:    "reservation",
		EntityID:  &claimed.ID,
	})

	return claimed, nil
}
