package workflow

// State represents a document status in the approval lifecycle
type State string

const (
	StateDraft            State = "draft"
	StateSubmitted        State = "submitted"
	StateInReview         State = "in_review"
	StateApproved         State = "approved"
	StateRejected         State = "rejected"
	StateRevisionRequired State = "revision_required"
)

var validStates = map[State]bool{
	StateDraft:            true,
	StateSubmitted:        true,
	StateInReview:         true,
	StateApproved:         true,
	StateRejected:         true,
	StateRevisionRequired: true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if the state is terminal (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid document status
func (s State) IsValid() bool {
	return validStates[s]
}
