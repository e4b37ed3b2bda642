package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a status transition is not allowed
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState is returned when a status is not valid
	ErrInvalidState = errors.New("invalid status")

	// ErrRoleNotAllowed is returned when the acting role may not fire the action
	ErrRoleNotAllowed = errors.New("role not allowed for action")
)
