// Package apperror defines the error taxonomy shared by all services.
// HTTP handlers map these error kinds onto status codes; services never
// return raw driver errors to the interface layer.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound creates a NotFoundError for the given resource
func NewNotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError indicates the actor's role or ownership does not satisfy
// the action's authorization rule.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NewForbidden creates a ForbiddenError with the given message
func NewForbidden(msg string) *ForbiddenError {
	return &ForbiddenError{Message: msg}
}

// UnauthorizedError indicates missing or invalid credentials
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// NewUnauthorized creates an UnauthorizedError
func NewUnauthorized(msg string) *UnauthorizedError {
	return &UnauthorizedError{Message: msg}
}

// IsUnauthorized reports whether err is an UnauthorizedError
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// StateConflictError indicates an action was attempted from a status outside
// its allowed set, or a duplicate approval by the same actor. Expected names
// the statuses the action requires.
type StateConflictError struct {
	Action   string
	Current  string
	Expected []string
	Message  string
}

func (e *StateConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cannot %s from status %s, requires %s",
		e.Action, e.Current, strings.Join(e.Expected, " or "))
}

// NewStateConflict creates a StateConflictError naming the required statuses
func NewStateConflict(action, current string, expected ...string) *StateConflictError {
	return &StateConflictError{Action: action, Current: current, Expected: expected}
}

// NewDuplicateApproval creates the StateConflictError returned when a user
// attempts a second approved action on the same document
func NewDuplicateApproval(current string) *StateConflictError {
	return &StateConflictError{
		Action:  "approve",
		Current: current,
		Message: "you have already approved this document",
	}
}

// FieldError describes a single field-level validation problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one or more field-level problems.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation creates a ValidationError from field problems
func NewValidation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ConflictError indicates a persistence-level conflict, typically a
// unique-constraint violation such as a racy document-number collision.
type ConflictError struct {
	Message string
	Cause   error
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Cause
}

// NewConflict creates a ConflictError wrapping the underlying cause
func NewConflict(msg string, cause error) *ConflictError {
	return &ConflictError{Message: msg, Cause: cause}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsForbidden reports whether err is a ForbiddenError
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsStateConflict reports whether err is a StateConflictError
func IsStateConflict(err error) bool {
	var target *StateConflictError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
