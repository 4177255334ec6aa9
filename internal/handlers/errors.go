package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
)

var businessMessages = map[string]string{
	"company_not_found":             "Company not found.",
	"service_not_found":             "Service not found.",
	"worker_not_found":              "Worker not found.",
	"reservation_not_found":         "Reservation not found.",
	"invalid_date":                  "Invalid date, expected YYYY-MM-DD.",
	"invalid_time":                  "Invalid time, expected HH:mm.",
	"too_soon":                      "The requested start is inside the minimum advance window.",
	"closed_day":                    "The company is closed on this date.",
	"outside_working_hours":         "The requested window is outside working hours.",
	"customer_required":             "Customer name and phone are required.",
	"invalid_state":                 "The reservation cannot move to that status.",
	"invalid_action":                "Unknown reservation action.",
	"worker_cannot_perform_service": "The worker does not perform this service.",
	"worker_has_no_shift":           "The worker has no shift on this date.",
	"outside_shift":                 "The requested window is outside the worker's shift.",
	"break_conflict":                "The requested window overlaps a break.",
	"invalid_year":                  "Invalid year.",
	"invalid_month":                 "Invalid month.",
	"invalid_request":               "Invalid request body.",
	"invalid_phone":                 "Invalid phone number.",
	"already_claimed":               "The reservation already has a worker.",
	"invalid_duration":              "Duration must be positive and a multiple of 10 or 15 minutes.",
	"invalid_shift_window":          "Invalid shift window.",
	"invalid_break_window":          "Invalid break window.",
	"break_outside_shift":           "Breaks must be inside the shift.",
	"overlapping_breaks":            "Breaks must not overlap.",
	"invalid_weekday":               "Weekday must be between 0 and 6.",
	"duplicate_weekday":             "Each weekday may appear once.",
	"invalid_working_window":        "Invalid working window.",
	"invalid_name":                  "Name must not be empty.",
	"invalid_price":                 "Price must not be negative.",
	"service_inactive":              "Reactivate the service before changing its duration.",
}

var conflictMessages = map[string]string{
	"slot_unavailable":     "The slot is no longer available. Refresh availability and try again.",
	"shift_already_exists": "The worker already has a shift on this date.",
}

// writeError maps use case errors to responses. Unknown errors are attached
// to the context for the request logger and answered with fallback.
func writeError(c *gin.Context, err error, fallback string) {
	if httperr.IsConflict(err) {
		code := "slot_unavailable"
		var ce httperr.ConflictError
		if errors.As(err, &ce) && ce.Code != "" {
			code = ce.Code
		}
		httperr.Conflict(c, code, messageFor(conflictMessages, code))
		return
	}

	if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
		httperr.Conflict(c, "slot_unavailable", conflictMessages["slot_unavailable"])
		return
	}

	if code := httperr.BusinessCode(err); code != "" {
		msg := messageFor(businessMessages, code)
		if strings.HasSuffix(code, "_not_found") {
			httperr.NotFound(c, code, msg)
			return
		}
		if code == "invalid_state" || code == "already_claimed" {
			httperr.Write(c, http.StatusUnprocessableEntity, code, msg)
			return
		}
		httperr.BadRequest(c, code, msg)
		return
	}

	_ = c.Error(err)
	httperr.Internal(c, fallback, "Internal error.")
}

func messageFor(m map[string]string, code string) string {
	if msg, ok := m[code]; ok {
		return msg
	}
	return code
}
