package scheduling

import (
	"time"

	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Apply moves the reservation through the status machine and stamps the
// matching timestamp.
func Apply(r *models.Reservation, action Action, now time.Time) error {
	next, err := Next(Status(r.Status), action)
	if err != nil {
		return err
	}

	r.Status = string(next)
	switch next {
	case StatusAccepted:
		r.AcceptedAt = &now
	case StatusInService:
		r.StartedAt = &now
	case StatusDone:
		r.CompletedAt = &now
	case StatusCancelled:
		r.CancelledAt = &now
	}
	return nil
}

func Cancel(r *models.Reservation, now time.Time) error {
	return Apply(r, ActionCancel, now)
}

func Complete(r *models.Reservation, now time.Time) error {
	return Apply(r, ActionComplete, now)
}
