package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/metrics"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
)

var auditActions = map[scheduling.Action]string{
	scheduling.ActionAccept:   "reservation_accepted",
	scheduling.ActionStart:    "reservation_started",
	scheduling.ActionComplete: "reservation_completed",
	scheduling.ActionCancel:   "reservation_cancelled",
}

// Transition moves a reservation along the status machine.
type Transition struct {
	repo        scheduling.Repository
	invalidator Invalidator
	audit       *audit.Dispatcher
	log         *zap.Logger
	now         func() time.Time
}

func NewTransition(
	repo scheduling.Repository,
	invalidator Invalidator,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *Transition {
	return &Transition{
		repo:        repo,
		invalidator: invalidator,
		audit:       audit,
		log:         log,
		now:         time.Now,
	}
}

func (uc *Transition) Execute(
	ctx context.Context,
	companyID uint,
	reservationID uint,
	action scheduling.Action,
	actorID *uint,
) (*models.Reservation, error) {

	company, err := getCompany(ctx, uc.repo, companyID)
	if err != nil {
		return nil, err
	}

	r, err := getReservation(ctx, uc.repo, companyID, reservationID)
	if err != nil {
		return nil, err
	}

	var updated *models.Reservation
	err = uc.repo.WithinWorkerDay(ctx, companyID, r.WorkerID, r.Date, func(tx scheduling.Repository) error {
		locked, err := getReservation(ctx, tx, companyID, reservationID)
		if err != nil {
			return err
		}

		now := uc.now().In(timezone.Location(company.Timezone))
		if err := scheduling.Apply(locked, action, now); err != nil {
			return err
		}

		if err := tx.UpdateReservation(ctx, locked); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	// DONE and CANCELLED free the window.
	if !scheduling.Status(updated.Status).IsActive() {
		InvalidateDates(ctx, uc.invalidator, uc.log, companyID, updated.Date)
	}
	metrics.IncTransition(string(action))

	uc.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		UserID:    actorID,
		Action:    auditActions[action],
		Entity:    "reservation",
		EntityID:  &updated.ID,
	})

	return updated, nil
}
