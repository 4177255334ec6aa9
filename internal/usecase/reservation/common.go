package reservation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/metrics"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
)

// Invalidator drops cached availability for one company date.
type Invalidator interface {
	Invalidate(ctx context.Context, companyID uint, date string) error
}

// InvalidateDates drops cached availability for each date. Failures are
// logged and never fail the write that caused them.
func InvalidateDates(ctx context.Context, inv Invalidator, log *zap.Logger, companyID uint, dates ...string) {
	if inv == nil {
		return
	}
	for _, d := range dates {
		if err := inv.Invalidate(ctx, companyID, d); err != nil {
			log.Warn("availability cache invalidation failed",
				zap.Uint("company_id", companyID),
				zap.String("date", d),
				zap.Error(err),
			)
		}
	}
}

// ======================================================
// REQUEST RESOLUTION
// ======================================================

// slotRequest is a validated (company, service, date, start) tuple.
type slotRequest struct {
	company *models.Company
	service *models.Service
	loc     *time.Location
	date    time.Time
	start   scheduling.Clock
}

func (r slotRequest) dateString() string {
	return r.date.Format(scheduling.DateLayout)
}

func (r slotRequest) spec() scheduling.ServiceSpec {
	return scheduling.ServiceSpec{ID: r.service.ID, DurationMinutes: r.service.DurationMinutes}
}

func getCompany(ctx context.Context, repo scheduling.Repository, companyID uint) (*models.Company, error) {
	company, err := repo.GetCompanyByID(ctx, companyID)
	if errors.Is(err, scheduling.ErrNotFound) {
		return nil, httperr.ErrBusiness("company_not_found")
	}
	return company, err
}

func getActiveService(ctx context.Context, repo scheduling.Repository, companyID, serviceID uint) (*models.Service, error) {
	service, err := repo.GetService(ctx, companyID, serviceID)
	if errors.Is(err, scheduling.ErrNotFound) {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if err != nil {
		return nil, err
	}
	if !service.IsActive {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return service, nil
}

func getReservation(ctx context.Context, repo scheduling.Repository, companyID, id uint) (*models.Reservation, error) {
	r, err := repo.GetReservation(ctx, companyID, id)
	if errors.Is(err, scheduling.ErrNotFound) {
		return nil, httperr.ErrBusiness("reservation_not_found")
	}
	return r, err
}

func parseSlot(company *models.Company, date, start string) (time.Time, scheduling.Clock, *time.Location, error) {
	loc := timezone.Location(company.Timezone)

	d, err := scheduling.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, 0, nil, httperr.ErrBusiness("invalid_date")
	}
	c, err := scheduling.ParseClock(start)
	if err != nil || c >= scheduling.MinutesPerDay {
		return time.Time{}, 0, nil, httperr.ErrBusiness("invalid_time")
	}
	return d, c, loc, nil
}

// checkAdvance rejects starts inside the company's minimum advance window.
func checkAdvance(req slotRequest, now time.Time) error {
	minAdvance := req.company.MinAdvanceMinutes
	if minAdvance < 0 {
		minAdvance = 0
	}
	earliest := now.In(req.loc).Add(time.Duration(minAdvance) * time.Minute)
	if req.start.On(req.date).Before(earliest) {
		return httperr.ErrBusiness("too_soon")
	}
	return nil
}

// ======================================================
// AT-COMMIT CHECKS
// ======================================================

// withinWorkingHours: the base-duration window must fit the company's open
// window on that date, like every slot the engine offers.
func withinWorkingHours(day *scheduling.Day, service scheduling.ServiceSpec, start scheduling.Clock) error {
	window, open := day.WorkingWindow()
	if !open {
		return httperr.ErrBusiness("closed_day")
	}
	if !window.Contains(scheduling.NewInterval(start, service.DurationMinutes)) {
		return httperr.ErrBusiness("outside_working_hours")
	}
	return nil
}

// checkBoundWorker re-runs eligibility for a chosen worker against a freshly
// loaded day. Overlaps surface as ConflictError, everything else as a
// business error naming the failed check.
func checkBoundWorker(
	day *scheduling.Day,
	workerID uint,
	service scheduling.ServiceSpec,
	start scheduling.Clock,
	excludeID *uint,
) (scheduling.Worker, error) {

	w, ok := day.Worker(workerID)
	if !ok || !w.Active {
		return scheduling.Worker{}, httperr.ErrBusiness("worker_not_found")
	}

	window := day.WindowFor(w, service, start)
	switch reason := day.CheckWorker(w, service.ID, window, excludeID); reason {
	case scheduling.Eligible:
	case scheduling.BookingConflict:
		metrics.IncConflict("eligibility")
		return scheduling.Worker{}, httperr.ErrConflict("slot_unavailable")
	default:
		return scheduling.Worker{}, httperr.ErrBusiness(reason.Code())
	}

	if scheduling.HasConflict(day.Occupied(), &w.ID, window, excludeID) {
		metrics.IncConflict("overlap")
		return scheduling.Worker{}, httperr.ErrConflict("slot_unavailable")
	}
	return w, nil
}

// storageConflict maps a violation of the active-slot index (or an exclusion
// constraint) raised by the insert/update to ConflictError; other errors,
// including other unique violations, pass through.
func storageConflict(err error) error {
	if httperr.IsUniqueViolationOn(err, models.ActiveSlotIndex) || httperr.IsExclusionConflict(err) {
		metrics.IncConflict("constraint")
		return httperr.ErrConflict("slot_unavailable")
	}
	return err
}
