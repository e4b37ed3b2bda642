package workflow

// Action represents an inbound event that can cause a status transition
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionStartReview     Action = "start_review"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionRequestRevision Action = "request_revision"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}
