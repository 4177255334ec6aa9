package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
)

func TestValidateServiceDuration(t *testing.T) {
	for _, ok := range []int{10, 15, 20, 30, 45, 60, 75, 90} {
		assert.NoError(t, ValidateServiceDuration(ok), ok)
	}
	for _, bad := range []int{0, -15, 5, 25, 35, 52} {
		assert.True(t, httperr.IsBusiness(ValidateServiceDuration(bad), "invalid_duration"), bad)
	}
}

func TestValidateShift(t *testing.T) {
	shift := Interval{Start: 540, End: 1020}

	assert.NoError(t, ValidateShift(shift, nil))
	assert.NoError(t, ValidateShift(shift, []Interval{{Start: 720, End: 780}, {Start: 600, End: 615}}))

	err := ValidateShift(shift, []Interval{{Start: 1000, End: 1050}})
	assert.True(t, httperr.IsBusiness(err, "break_outside_shift"))

	err = ValidateShift(shift, []Interval{{Start: 720, End: 780}, {Start: 750, End: 800}})
	assert.True(t, httperr.IsBusiness(err, "overlapping_breaks"))

	err = ValidateShift(Interval{Start: 600, End: 540}, nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_shift_window"))
}

func TestValidateWorkingWeek(t *testing.T) {
	assert.NoError(t, ValidateWorkingWeek([]WorkingDay{
		{Weekday: 1, Active: true, StartTime: "09:00", EndTime: "17:00"},
		{Weekday: 0, Active: false},
	}))

	err := ValidateWorkingWeek([]WorkingDay{
		{Weekday: 1, Active: true, StartTime: "09:00", EndTime: "17:00"},
		{Weekday: 1, Active: true, StartTime: "10:00", EndTime: "12:00"},
	})
	assert.True(t, httperr.IsBusiness(err, "duplicate_weekday"))

	err = ValidateWorkingWeek([]WorkingDay{{Weekday: 7, Active: false}})
	assert.True(t, httperr.IsBusiness(err, "invalid_weekday"))

	err = ValidateWorkingWeek([]WorkingDay{{Weekday: 2, Active: true, StartTime: "18:00", EndTime: "09:00"}})
	assert.True(t, httperr.IsBusiness(err, "invalid_working_window"))
}
