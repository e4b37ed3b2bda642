package workflow

import (
	"fmt"

	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// Kind identifies which of the two document variants a workflow governs.
// The variants share one transition table but differ in reviewer eligibility.
type Kind string

const (
	KindGoodsReceipt Kind = "goods_receipt"
	KindWorkProgress Kind = "work_progress"
)

// allowedFrom is the closed transition table: the statuses each action may be
// fired from, in the order they are named to callers on a state conflict.
var allowedFrom = map[Action][]State{
	ActionSubmit:          {StateDraft, StateRevisionRequired},
	ActionStartReview:     {StateSubmitted},
	ActionApprove:         {StateSubmitted, StateInReview},
	ActionReject:          {StateSubmitted, StateInReview},
	ActionRequestRevision: {StateSubmitted, StateInReview},
}

// reviewerRoles lists the roles eligible to review each document variant.
// Goods receipts additionally accept the warehouse PIC; this asymmetry is a
// business rule, not an accident.
var reviewerRoles = map[Kind][]string{
	KindGoodsReceipt: {entity.RolePICGudang, entity.RoleApprover, entity.RoleAdmin},
	KindWorkProgress: {entity.RoleApprover, entity.RoleAdmin},
}

// assignmentRole is the role whose first approval action claims the
// document's reviewer slot when it is still unassigned.
var assignmentRole = map[Kind]string{
	KindGoodsReceipt: entity.RolePICGudang,
	KindWorkProgress: entity.RoleApprover,
}

// actorRoles lists the roles allowed to fire each action. Vendor-initiated
// actions are further restricted to the owning vendor by the caller.
var actorRoles = map[Action][]string{
	ActionSubmit:          {entity.RoleVendor},
	ActionStartReview:     nil, // reviewer-eligible roles, per kind
	ActionApprove:         nil,
	ActionReject:          nil,
	ActionRequestRevision: nil,
}

// NewDocumentMachine builds the document approval machine positioned at the
// given status.
func NewDocumentMachine(status State) (Machine, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, status)
	}

	builder := NewBuilder()
	for action, froms := range allowedFrom {
		to := targetState(action)
		for _, from := range froms {
			builder.Configure(from).Permit(action, to)
		}
	}

	return builder.Build(status), nil
}

// targetState maps each action to the status it produces
func targetState(action Action) State {
	switch action {
	case ActionSubmit:
		return StateSubmitted
	case ActionStartReview:
		return StateInReview
	case ActionApprove:
		return StateApproved
	case ActionReject:
		return StateRejected
	case ActionRequestRevision:
		return StateRevisionRequired
	default:
		panic(fmt.Sprintf("unknown action: %s", action))
	}
}

// AllowedFrom returns the statuses the action may be fired from, for
// state-conflict reporting.
func AllowedFrom(action Action) []string {
	froms := allowedFrom[action]
	names := make([]string, 0, len(froms))
	for _, s := range froms {
		names = append(names, s.String())
	}
	return names
}

// RoleCanAct reports whether the role may fire the action against the given
// document kind. Reviewer actions consult the per-kind eligibility table;
// vendor actions consult the action's fixed role list.
func RoleCanAct(kind Kind, action Action, role string) bool {
	if fixed := actorRoles[action]; fixed != nil {
		for _, r := range fixed {
			if r == role {
				return true
			}
		}
		return false
	}
	return RoleIsReviewer(kind, role)
}

// RoleIsReviewer reports whether the role is reviewer-eligible for the kind
func RoleIsReviewer(kind Kind, role string) bool {
	for _, r := range reviewerRoles[kind] {
		if r == role {
			return true
		}
	}
	return false
}

// RoleClaimsReviewerSlot reports whether an approval action by this role
// should lazily assign the document's reviewer when unassigned.
func RoleClaimsReviewerSlot(kind Kind, role string) bool {
	return assignmentRole[kind] == role
}
