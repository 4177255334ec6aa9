package scheduling

import "fmt"

type DiagnosticKind string

const (
	// Two shifts for one worker on one date. The worker is treated as unavailable.
	DiagnosticDuplicateShift DiagnosticKind = "duplicate_shift"
	DiagnosticInvalidShift   DiagnosticKind = "invalid_shift"
	DiagnosticInvalidBreak   DiagnosticKind = "invalid_break"
	DiagnosticInvalidBooking DiagnosticKind = "invalid_booking"
	DiagnosticUnknownService DiagnosticKind = "unknown_service"
)

// Diagnostic is a data invariant violation met while building a Day.
// The engine fails closed on it; callers log it.
type Diagnostic struct {
	Kind     DiagnosticKind
	Date     string
	WorkerID uint
	RefID    uint
	Detail   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s date=%s worker=%d ref=%d %s", d.Kind, d.Date, d.WorkerID, d.RefID, d.Detail)
}
