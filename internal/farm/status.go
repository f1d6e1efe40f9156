package farm

import "fmt"

// Status is a farm's position in the verification workflow.
type Status string

const (
	StatusPendingVerification Status = "PENDING_VERIFICATION"
	StatusVerified            Status = "VERIFIED"
	StatusRejected            Status = "REJECTED"
	StatusNeedsUpdate         Status = "NEEDS_UPDATE"
)

// Event is an explicit action applied to a farm's status. Attribute edits
// never move a farm between states on their own; a farmer re-submitting a
// NEEDS_UPDATE farm must send the resubmit event.
type Event string

const (
	EventVerify        Event = "verify"
	EventReject        Event = "reject"
	EventRequestUpdate Event = "request_update"
	EventResubmit      Event = "resubmit"
)

// transitions is the full state machine: any (state, event) pair missing here
// is illegal. VERIFIED is terminal.
var transitions = map[Status]map[Event]Status{
	StatusPendingVerification: {
		EventVerify:        StatusVerified,
		EventReject:        StatusRejected,
		EventRequestUpdate: StatusNeedsUpdate,
	},
	StatusNeedsUpdate: {
		EventVerify:   StatusVerified,
		EventReject:   StatusRejected,
		EventResubmit: StatusPendingVerification,
	},
	StatusRejected: {
		EventRequestUpdate: StatusNeedsUpdate,
		EventResubmit:      StatusPendingVerification,
	},
	StatusVerified: {},
}

// ErrInvalidTransition is returned when an event is not legal for the farm's
// current status.
type ErrInvalidTransition struct {
	From  Status
	Event Event
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot apply %q to a farm in status %q", e.Event, e.From)
}

// Transition returns the status reached by applying event to current, or
// ErrInvalidTransition when the edge does not exist.
func Transition(current Status, event Event) (Status, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return current, ErrInvalidTransition{From: current, Event: event}
}
