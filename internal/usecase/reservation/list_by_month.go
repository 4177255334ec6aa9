package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

type ListByMonth struct {
	repo scheduling.Repository
}

func NewListByMonth(repo scheduling.Repository) *ListByMonth {
	return &ListByMonth{repo: repo}
}

// Execute lists a worker's reservations of one calendar month, ordered by
// date and start time.
func (uc *ListByMonth) Execute(
	ctx context.Context,
	companyID uint,
	workerID uint,
	year int,
	month int,
) ([]models.Reservation, error) {

	if year < 2000 || year > 2100 {
		return nil, httperr.ErrBusiness("invalid_year")
	}
	if month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	if _, err := getCompany(ctx, uc.repo, companyID); err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	list, err := uc.repo.ListReservationsForWorker(
		ctx,
		companyID,
		workerID,
		first.Format(scheduling.DateLayout),
		last.Format(scheduling.DateLayout),
	)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Reservation{}
	}
	return list, nil
}
