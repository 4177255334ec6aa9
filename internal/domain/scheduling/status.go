package scheduling

import "github.com/BruksfildServices01/company-scheduler/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusInService Status = "IN_SERVICE"
	StatusDone      Status = "DONE"
	StatusCancelled Status = "CANCELLED"
)

// ActiveStatuses block availability. DONE and CANCELLED never do.
var ActiveStatuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusInService,
}

func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInService:
		return true
	}
	return false
}

// ActiveStatusStrings is ActiveStatuses as plain strings for storage queries.
func ActiveStatusStrings() []string {
	out := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// ===============================
// Transitions
// ===============================

type Action string

const (
	ActionAccept   Action = "accept"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// forward lists the only non-cancel moves; the machine never goes backwards.
var forward = map[Status]Status{
	StatusPending:   StatusAccepted,
	StatusAccepted:  StatusInService,
	StatusInService: StatusDone,
}

var actionTarget = map[Action]Status{
	ActionAccept:   StatusAccepted,
	ActionStart:    StatusInService,
	ActionComplete: StatusDone,
	ActionCancel:   StatusCancelled,
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actionTarget[a]; !ok {
		return "", httperr.ErrBusiness("invalid_action")
	}
	return a, nil
}

// Next validates the action against the current status and returns the target.
func Next(current Status, action Action) (Status, error) {
	target, ok := actionTarget[action]
	if !ok {
		return "", httperr.ErrBusiness("invalid_action")
	}

	if target == StatusCancelled {
		if !current.IsActive() {
			return "", httperr.ErrBusiness("invalid_state")
		}
		return target, nil
	}

	if forward[current] != target {
		return "", httperr.ErrBusiness("invalid_state")
	}
	return target, nil
}

func InitialStatus() Status {
	return StatusPending
}
