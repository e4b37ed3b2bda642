package workflow

import (
	"testing"

	"github.com/badigital/ba-workflow/internal/domain/entity"
)

func TestNewDocumentMachine_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		action  Action
		want    State
		allowed bool
	}{
		{"submit from draft", StateDraft, ActionSubmit, StateSubmitted, true},
		{"submit from revision_required", StateRevisionRequired, ActionSubmit, StateSubmitted, true},
		{"submit from submitted", StateSubmitted, ActionSubmit, "", false},
		{"submit from approved", StateApproved, ActionSubmit, "", false},
		{"start_review from submitted", StateSubmitted, ActionStartReview, StateInReview, true},
		{"start_review from draft", StateDraft, ActionStartReview, "", false},
		{"start_review from in_review", StateInReview, ActionStartReview, "", false},
		{"approve from submitted", StateSubmitted, ActionApprove, StateApproved, true},
		{"approve from in_review", StateInReview, ActionApprove, StateApproved, true},
		{"approve from draft", StateDraft, ActionApprove, "", false},
		{"approve from rejected", StateRejected, ActionApprove, "", false},
		{"reject from submitted", StateSubmitted, ActionReject, StateRejected, true},
		{"reject from in_review", StateInReview, ActionReject, StateRejected, true},
		{"reject from approved", StateApproved, ActionReject, "", false},
		{"request_revision from submitted", StateSubmitted, ActionRequestRevision, StateRevisionRequired, true},
		{"request_revision from in_review", StateInReview, ActionRequestRevision, StateRevisionRequired, true},
		{"request_revision from rejected", StateRejected, ActionRequestRevision, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine, err := NewDocumentMachine(tt.from)
			if err != nil {
				t.Fatalf("NewDocumentMachine(%s) error = %v", tt.from, err)
			}

			if got := machine.CanFire(tt.action); got != tt.allowed {
				t.Errorf("CanFire(%s) from %s = %v, want %v", tt.action, tt.from, got, tt.allowed)
			}

			err = machine.Fire(tt.action)
			if tt.allowed {
				if err != nil {
					t.Errorf("Fire(%s) from %s error = %v", tt.action, tt.from, err)
					return
				}
				if machine.State() != tt.want {
					t.Errorf("Fire(%s) from %s state = %s, want %s", tt.action, tt.from, machine.State(), tt.want)
				}
			} else {
				if err == nil {
					t.Errorf("Fire(%s) from %s expected error, got nil", tt.action, tt.from)
				}
				if machine.State() != tt.from {
					t.Errorf("failed Fire moved state to %s, want %s unchanged", machine.State(), tt.from)
				}
			}
		})
	}
}

func TestNewDocumentMachine_InvalidStatus(t *testing.T) {
	if _, err := NewDocumentMachine("pending"); err == nil {
		t.Errorf("NewDocumentMachine(pending) expected error, got nil")
	}
}

func TestTerminalStates(t *testing.T) {
	for _, terminal := range []State{StateApproved, StateRejected} {
		machine, err := NewDocumentMachine(terminal)
		if err != nil {
			t.Fatalf("NewDocumentMachine(%s) error = %v", terminal, err)
		}
		for _, action := range []Action{ActionSubmit, ActionStartReview, ActionApprove, ActionReject, ActionRequestRevision} {
			if machine.CanFire(action) {
				t.Errorf("CanFire(%s) from terminal %s = true, want false", action, terminal)
			}
		}
		if !terminal.IsTerminal() {
			t.Errorf("%s.IsTerminal() = false, want true", terminal)
		}
	}
}

func TestAllowedFrom(t *testing.T) {
	got := AllowedFrom(ActionSubmit)
	want := []string{"draft", "revision_required"}
	if len(got) != len(want) {
		t.Fatalf("AllowedFrom(submit) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllowedFrom(submit)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRoleCanAct(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		action Action
		role   string
		want   bool
	}{
		{"vendor submits", KindGoodsReceipt, ActionSubmit, entity.RoleVendor, true},
		{"approver cannot submit", KindGoodsReceipt, ActionSubmit, entity.RoleApprover, false},
		{"admin cannot submit", KindWorkProgress, ActionSubmit, entity.RoleAdmin, false},
		{"pic_gudang approves goods receipt", KindGoodsReceipt, ActionApprove, entity.RolePICGudang, true},
		{"pic_gudang cannot approve work progress", KindWorkProgress, ActionApprove, entity.RolePICGudang, false},
		{"approver approves work progress", KindWorkProgress, ActionApprove, entity.RoleApprover, true},
		{"approver approves goods receipt", KindGoodsReceipt, ActionApprove, entity.RoleApprover, true},
		{"admin reviews both kinds", KindWorkProgress, ActionStartReview, entity.RoleAdmin, true},
		{"vendor cannot reject", KindGoodsReceipt, ActionReject, entity.RoleVendor, false},
		{"pic_gudang requests revision on goods receipt", KindGoodsReceipt, ActionRequestRevision, entity.RolePICGudang, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleCanAct(tt.kind, tt.action, tt.role); got != tt.want {
				t.Errorf("RoleCanAct(%s, %s, %s) = %v, want %v", tt.kind, tt.action, tt.role, got, tt.want)
			}
		})
	}
}

func TestRoleClaimsReviewerSlot(t *testing.T) {
	tests := []struct {
		kind Kind
		role string
		want bool
	}{
		{KindGoodsReceipt, entity.RolePICGudang, true},
		{KindGoodsReceipt, entity.RoleApprover, false},
		{KindGoodsReceipt, entity.RoleAdmin, false},
		{KindWorkProgress, entity.RoleApprover, true},
		{KindWorkProgress, entity.RolePICGudang, false},
		{KindWorkProgress, entity.RoleAdmin, false},
	}

	for _, tt := range tests {
		if got := RoleClaimsReviewerSlot(tt.kind, tt.role); got != tt.want {
			t.Errorf("RoleClaimsReviewerSlot(%s, %s) = %v, want %v", tt.kind, tt.role, got, tt.want)
		}
	}
}
