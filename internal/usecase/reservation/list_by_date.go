package reservation

import (
	"context"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
)

type ListByDate struct {
	repo scheduling.Repository
}

func NewListByDate(repo scheduling.Repository) *ListByDate {
	return &ListByDate{repo: repo}
}

// Execute lists every reservation of the date (all statuses) ordered by
// start time, optionally for one worker.
func (uc *ListByDate) Execute(
	ctx context.Context,
	companyID uint,
	date string,
	workerID *uint,
) ([]models.Reservation, error) {

	company, err := getCompany(ctx, uc.repo, companyID)
	if err != nil {
		return nil, err
	}

	day, err := scheduling.ParseDate(date, timezone.Location(company.Timezone))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	list, err := uc.repo.ListReservationsForDate(ctx, companyID, day.Format(scheduling.DateLayout), workerID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Reservation{}
	}
	return list, nil
}
