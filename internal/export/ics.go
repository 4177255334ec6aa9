package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// WorkerCalendar renders a worker's reservations as an iCalendar feed.
// Times are read in loc, the company's zone. Cancelled reservations stay in
// the feed with STATUS:CANCELLED so subscribed clients drop them.
func WorkerCalendar(
	company models.Company,
	worker models.User,
	list []models.Reservation,
	loc *time.Location,
	now time.Time,
) (string, error) {

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//company-scheduler//agenda//EN")
	cal.SetXWRCalName(fmt.Sprintf("%s - %s", company.Name, worker.Name))
	cal.SetXWRTimezone(loc.String())

	for _, r := range list {
		start, end, err := reservationBounds(r, loc)
		if err != nil {
			return "", fmt.Errorf("reservation %d: %w", r.ID, err)
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@%s", r.Code, company.Slug))
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(fmt.Sprintf("%s - %s", r.Service.Name, r.Customer.Name))
		ev.SetStatus(eventStatus(scheduling.Status(r.Status)))
		if company.Address != "" {
			ev.SetLocation(company.Address)
		}
		if r.Notes != "" {
			ev.SetDescription(r.Notes)
		}
	}

	return cal.Serialize(), nil
}

func reservationBounds(r models.Reservation, loc *time.Location) (time.Time, time.Time, error) {
	day, err := scheduling.ParseDate(r.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := scheduling.ParseClock(r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end := start.Add(r.Service.DurationMinutes)
	if r.EndTime != "" {
		if end, err = scheduling.ParseClock(r.EndTime); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return start.On(day), end.On(day), nil
}

func eventStatus(s scheduling.Status) ics.ObjectStatus {
	switch s {
	case scheduling.StatusPending:
		return ics.ObjectStatusTentative
	case scheduling.StatusCancelled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}
