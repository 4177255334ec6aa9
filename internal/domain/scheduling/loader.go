package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// LoadDay bulk-loads the roster, shifts, breaks and reservations of one
// company date and indexes them into a Day. Rows that cannot be parsed are
// reported as diagnostics and left out, so the affected worker fails closed.
func LoadDay(
	ctx context.Context,
	repo Repository,
	company *models.Company,
	serviceID uint,
	date time.Time,
) (*Day, error) {

	in := DayInput{
		Date:                  date.Format(DateLayout),
		AnchorIntervalMinutes: company.SlotAnchorIntervalMinutes,
		TraineeExtraMinutes:   company.TraineeExtraMinutes,
	}

	// --------------------------------------------------
	// Working window
	// --------------------------------------------------
	wh, err := repo.GetWorkingHours(ctx, company.ID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}
	if wh != nil && wh.Active {
		window, err := ParseInterval(wh.StartTime, wh.EndTime)
		if err == nil {
			in.WorkingHours = &window
		} else {
			in.Diagnostics = append(in.Diagnostics, Diagnostic{
				Kind:   DiagnosticInvalidShift,
				Date:   in.Date,
				RefID:  wh.ID,
				Detail: "working hours " + wh.StartTime + "-" + wh.EndTime,
			})
		}
	}

	// --------------------------------------------------
	// Roster
	// --------------------------------------------------
	users, err := repo.ListWorkers(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		in.Workers = append(in.Workers, Worker{
			ID:        u.ID,
			Active:    u.Active,
			CanServe:  u.CanServe,
			IsTrainee: u.IsTrainee,
		})
	}

	grants, err := repo.ListWorkerServiceAssignments(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	for _, g := range grants {
		in.Assignments = append(in.Assignments, Assignment{
			WorkerID:   g.WorkerID,
			ServiceID:  g.ServiceID,
			CanPerform: g.CanPerform,
		})
	}

	// --------------------------------------------------
	// Shifts + breaks
	// --------------------------------------------------
	shifts, err := repo.ListShiftsForDate(ctx, company.ID, in.Date)
	if err != nil {
		return nil, err
	}
	for _, s := range shifts {
		sw, diag, ok := shiftWindow(s, in.Date)
		if !ok {
			in.Diagnostics = append(in.Diagnostics, diag)
			continue
		}
		in.Shifts = append(in.Shifts, sw)
	}

	// --------------------------------------------------
	// Reservations
	// --------------------------------------------------
	reservations, err := repo.ListActiveReservations(ctx, company.ID, in.Date)
	if err != nil {
		return nil, err
	}

	serviceIDs := []uint{serviceID}
	seen := map[uint]bool{serviceID: true}
	for _, r := range reservations {
		start, err := ParseClock(r.StartTime)
		if err != nil {
			in.Diagnostics = append(in.Diagnostics, Diagnostic{
				Kind:   DiagnosticInvalidBooking,
				Date:   in.Date,
				RefID:  r.ID,
				Detail: r.StartTime,
			})
			continue
		}
		in.Bookings = append(in.Bookings, Booking{
			ID:        r.ID,
			ServiceID: r.ServiceID,
			WorkerID:  r.WorkerID,
			Start:     start,
			Status:    Status(r.Status),
		})
		if !seen[r.ServiceID] {
			seen[r.ServiceID] = true
			serviceIDs = append(serviceIDs, r.ServiceID)
		}
	}

	in.ServiceDurations, err = repo.ListServiceDurations(ctx, company.ID, serviceIDs)
	if err != nil {
		return nil, err
	}

	return NewDay(in), nil
}

func shiftWindow(s models.Shift, date string) (ShiftWindow, Diagnostic, bool) {
	window, err := ParseInterval(s.StartTime, s.EndTime)
	if err != nil {
		return ShiftWindow{}, Diagnostic{
			Kind:     DiagnosticInvalidShift,
			Date:     date,
			WorkerID: s.WorkerID,
			RefID:    s.ID,
			Detail:   s.StartTime + "-" + s.EndTime,
		}, false
	}

	sw := ShiftWindow{ID: s.ID, WorkerID: s.WorkerID, Window: window}
	for _, b := range s.Breaks {
		br, err := ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			return ShiftWindow{}, Diagnostic{
				Kind:     DiagnosticInvalidBreak,
				Date:     date,
				WorkerID: s.WorkerID,
				RefID:    b.ID,
				Detail:   b.StartTime + "-" + b.EndTime,
			}, false
		}
		sw.Breaks = append(sw.Breaks, br)
	}
	return sw, Diagnostic{}, true
}
