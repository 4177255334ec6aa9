package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/export"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/reservation"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"

	defaultCalendarDays = 30
	maxCalendarDays     = 366
)

type ExportHandler struct {
	repo       scheduling.Repository
	listByDate *reservation.ListByDate
}

func NewExportHandler(repo scheduling.Repository, listByDateUC *reservation.ListByDate) *ExportHandler {
	return &ExportHandler{repo: repo, listByDate: listByDateUC}
}

// DayAgenda serves the company's reservations of one date as .xlsx.
func (h *ExportHandler) DayAgenda(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := companyFromContext(c)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	company, err := h.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		writeCompanyError(c, err)
		return
	}

	list, err := h.listByDate.Execute(ctx, companyID, date, nil)
	if err != nil {
		writeError(c, err, "export_failed")
		return
	}

	buf, filename, err := export.DayAgenda(*company, date, list)
	if err != nil {
		writeError(c, err, "export_failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// WorkerCalendar serves a worker's reservations between from and to
// (inclusive, default today + 30 days) as an iCalendar feed.
func (h *ExportHandler) WorkerCalendar(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := companyFromContext(c)

	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	company, err := h.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		writeCompanyError(c, err)
		return
	}
	loc := timezone.Location(company.Timezone)

	worker, err := h.repo.GetWorker(ctx, companyID, workerID)
	if errors.Is(err, scheduling.ErrNotFound) {
		httperr.NotFound(c, "worker_not_found", businessMessages["worker_not_found"])
		return
	}
	if err != nil {
		writeError(c, err, "export_failed")
		return
	}

	now := time.Now().In(loc)
	from, to, ok := calendarRange(c, now, loc)
	if !ok {
		return
	}

	list, err := h.repo.ListReservationsForWorker(
		ctx, companyID, workerID,
		from.Format(scheduling.DateLayout),
		to.Format(scheduling.DateLayout),
	)
	if err != nil {
		writeError(c, err, "export_failed")
		return
	}

	body, err := export.WorkerCalendar(*company, *worker, list, loc, now)
	if err != nil {
		writeError(c, err, "export_failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="agenda_%d.ics"`, worker.ID))
	c.Data(http.StatusOK, icsContentType, []byte(body))
}

func calendarRange(c *gin.Context, now time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if raw := c.Query("from"); raw != "" {
		d, err := scheduling.ParseDate(raw, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", businessMessages["invalid_date"])
			return time.Time{}, time.Time{}, false
		}
		from = d
	}

	to := from.AddDate(0, 0, defaultCalendarDays)
	if raw := c.Query("to"); raw != "" {
		d, err := scheduling.ParseDate(raw, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", businessMessages["invalid_date"])
			return time.Time{}, time.Time{}, false
		}
		to = d
	}

	if to.Before(from) || to.Sub(from) > maxCalendarDays*24*time.Hour {
		httperr.BadRequest(c, "invalid_range", "to must be after from and within one year.")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeCompanyError(c *gin.Context, err error) {
	if errors.Is(err, scheduling.ErrNotFound) {
		httperr.NotFound(c, "company_not_found", businessMessages["company_not_found"])
		return
	}
	writeError(c, err, "export_failed")
}
