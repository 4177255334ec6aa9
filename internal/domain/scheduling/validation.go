package scheduling

import (
	"fmt"
	"sort"

	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
)

func errInvalidInterval(start, end string) error {
	return fmt.Errorf("invalid interval %s-%s", start, end)
}

// ValidateServiceDuration: positive and a multiple of 10 or 15 minutes.
func ValidateServiceDuration(minutes int) error {
	if minutes <= 0 || (minutes%10 != 0 && minutes%15 != 0) {
		return httperr.ErrBusiness("invalid_duration")
	}
	return nil
}

// ValidateShift checks a shift window and its breaks before they are stored.
// Breaks must sit inside the shift and must not overlap each other.
func ValidateShift(window Interval, breaks []Interval) error {
	if !window.Valid() {
		return httperr.ErrBusiness("invalid_shift_window")
	}

	sorted := append([]Interval(nil), breaks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i, br := range sorted {
		if !br.Valid() {
			return httperr.ErrBusiness("invalid_break_window")
		}
		if !window.Contains(br) {
			return httperr.ErrBusiness("break_outside_shift")
		}
		if i > 0 && sorted[i-1].Overlaps(br) {
			return httperr.ErrBusiness("overlapping_breaks")
		}
	}
	return nil
}

type WorkingDay struct {
	Weekday   int
	Active    bool
	StartTime string
	EndTime   string
}

// ValidateWorkingWeek checks a full working-hours replacement: weekdays 0-6,
// one row per weekday, valid windows on active days.
func ValidateWorkingWeek(days []WorkingDay) error {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return httperr.ErrBusiness("invalid_weekday")
		}
		if seen[d.Weekday] {
			return httperr.ErrBusiness("duplicate_weekday")
		}
		seen[d.Weekday] = true

		if !d.Active {
			continue
		}
		if _, err := ParseInterval(d.StartTime, d.EndTime); err != nil {
			return httperr.ErrBusiness("invalid_working_window")
		}
	}
	return nil
}
