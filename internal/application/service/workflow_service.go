// Package service implements the application use cases on top of the port
// interfaces.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// WorkflowService drives documents through the approval state machine. Every
// transition runs inside one transaction: ledger insert, status update and
// conditional reviewer assignment commit or roll back together.
type WorkflowService struct {
	tx       port.TransactionManager
	receipts port.GoodsReceiptRepository
	progress port.WorkProgressRepository
	grLedger port.ApprovalRepository
	wpLedger port.ApprovalRepository
	users    port.UserRepository
	notifier port.Notifier
	logger   *zap.Logger
}

// NewWorkflowService creates a WorkflowService
func NewWorkflowService(
	tx port.TransactionManager,
	receipts port.GoodsReceiptRepository,
	progress port.WorkProgressRepository,
	grLedger port.ApprovalRepository,
	wpLedger port.ApprovalRepository,
	users port.UserRepository,
	notifier port.Notifier,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		tx:       tx,
		receipts: receipts,
		progress: progress,
		grLedger: grLedger,
		wpLedger: wpLedger,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *WorkflowService) snapshot(ctx context.Context, kind workflow.Kind, id int64) (*docSnapshot, error) {
	return loadDocSnapshot(ctx, s.receipts, s.progress, kind, id)
}

func (s *WorkflowService) ledger(kind workflow.Kind) port.ApprovalRepository {
	if kind == workflow.KindGoodsReceipt {
		return s.grLedger
	}
	return s.wpLedger
}

func (s *WorkflowService) updateStatus(ctx context.Context, kind workflow.Kind, id int64, status, reason string, reviewerID *int64) error {
	if kind == workflow.KindGoodsReceipt {
		return s.receipts.UpdateStatus(ctx, id, status, reason, reviewerID)
	}
	return s.progress.UpdateStatus(ctx, id, status, reason, reviewerID)
}

// ensureAllowed verifies the action may fire from the document's current
// status, using the domain machine as the single source of truth.
func ensureAllowed(action workflow.Action, status string) error {
	machine, err := workflow.NewDocumentMachine(workflow.State(status))
	if err != nil {
		return err
	}
	if !machine.CanFire(action) {
		return apperror.NewStateConflict(string(action), status, workflow.AllowedFrom(action)...)
	}
	return nil
}

// Submit moves a draft or revision-required document into submitted. Only
// the owning vendor may submit, and the document must carry at least one
// item. A prior rejection reason is intentionally left in place so reviewers
// can see what the resubmission responds to.
func (s *WorkflowService) Submit(ctx context.Context, kind workflow.Kind, id int64, actor port.Actor) error {
	doc, err := s.snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	if !workflow.RoleCanAct(kind, workflow.ActionSubmit, actor.Role) {
		return apperror.NewForbidden("only vendors can submit documents")
	}
	if doc.VendorID != actor.ID {
		return apperror.NewForbidden("you can only submit your own documents")
	}
	if err := ensureAllowed(workflow.ActionSubmit, doc.Status); err != nil {
		return err
	}

	count, err := s.countItems(ctx, kind, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperror.NewValidation(apperror.FieldError{
			Field: "items", Message: "document must have at least one item before submission",
		})
	}

	if err := s.updateStatus(ctx, kind, id, entity.StatusSubmitted, "", nil); err != nil {
		return err
	}

	s.notifySubmitted(ctx, kind, doc)
	return nil
}

// StartReview moves a submitted document into in_review and claims the
// reviewer slot when it is still unassigned, whichever eligible role acts.
func (s *WorkflowService) StartReview(ctx context.Context, kind workflow.Kind, id int64, actor port.Actor) error {
	doc, err := s.snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	if !workflow.RoleCanAct(kind, workflow.ActionStartReview, actor.Role) {
		return apperror.NewForbidden("your role cannot review this document type")
	}
	if err := ensureAllowed(workflow.ActionStartReview, doc.Status); err != nil {
		return err
	}

	var reviewerID *int64
	if doc.ReviewerID == nil {
		reviewerID = &actor.ID
	}
	return s.updateStatus(ctx, kind, id, entity.StatusInReview, "", reviewerID)
}

// Approve records an approved ledger row and moves the document to approved.
// A user approves a given document at most once; the check and the writes
// share one transaction so concurrent approvals cannot both pass.
func (s *WorkflowService) Approve(ctx context.Context, kind workflow.Kind, id int64, actor port.Actor, notes string) error {
	doc, err := s.snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	if !workflow.RoleCanAct(kind, workflow.ActionApprove, actor.Role) {
		return apperror.NewForbidden("your role cannot approve this document type")
	}
	if err := ensureAllowed(workflow.ActionApprove, doc.Status); err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		already, err := s.ledger(kind).HasApprovedBy(txCtx, id, actor.ID)
		if err != nil {
			return err
		}
		if already {
			return apperror.NewDuplicateApproval(doc.Status)
		}

		if err := s.ledger(kind).Create(txCtx, &entity.ApprovalRecord{
			DocumentID: id,
			ApproverID: actor.ID,
			Action:     entity.ActionApproved,
			Notes:      notes,
		}); err != nil {
			return err
		}

		var reviewerID *int64
		if doc.ReviewerID == nil && workflow.RoleClaimsReviewerSlot(kind, actor.Role) {
			reviewerID = &actor.ID
		}
		return s.updateStatus(txCtx, kind, id, entity.StatusApproved, "", reviewerID)
	})
	if err != nil {
		return err
	}

	s.notifyDecision(ctx, kind, doc, actor, entity.ActionApproved, "")
	return nil
}

// Reject records a rejected ledger row, stores the reason on the document
// and moves it to the terminal rejected status.
func (s *WorkflowService) Reject(ctx context.Context, kind workflow.Kind, id int64, actor port.Actor, reason string) error {
	return s.decide(ctx, kind, id, actor, entity.ActionRejected, entity.StatusRejected, reason)
}

// RequestRevision records a revision_required ledger row, stores the reason
// and sends the document back to the vendor for rework.
func (s *WorkflowService) RequestRevision(ctx context.Context, kind workflow.Kind, id int64, actor port.Actor, reason string) error {
	return s.decide(ctx, kind, id, actor, entity.ActionRevisionRequired, entity.StatusRevisionRequired, reason)
}

// decide is the shared path for reject and request_revision: both demand a
// non-empty reason and write ledger row plus status in one transaction.
func (s *WorkflowService) decide(ctx context.Context, kind workflow.Kind, id int64, actor port.Actor, action, status, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperror.NewValidation(apperror.FieldError{
			Field: "reason", Message: "reason is required",
		})
	}

	doc, err := s.snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	wfAction := workflow.ActionReject
	if action == entity.ActionRevisionRequired {
		wfAction = workflow.ActionRequestRevision
	}
	if !workflow.RoleCanAct(kind, wfAction, actor.Role) {
		return apperror.NewForbidden("your role cannot review this document type")
	}
	if err := ensureAllowed(wfAction, doc.Status); err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ledger(kind).Create(txCtx, &entity.ApprovalRecord{
			DocumentID: id,
			ApproverID: actor.ID,
			Action:     action,
			Notes:      reason,
		}); err != nil {
			return err
		}
		return s.updateStatus(txCtx, kind, id, status, reason, nil)
	})
	if err != nil {
		return err
	}

	s.notifyDecision(ctx, kind, doc, actor, action, reason)
	return nil
}

// History returns the document's approval ledger, newest first
func (s *WorkflowService) History(ctx context.Context, kind workflow.Kind, id int64) ([]*entity.ApprovalRecord, error) {
	doc, err := s.snapshot(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.ledger(kind).ListByDocument(ctx, doc.ID)
}

func (s *WorkflowService) countItems(ctx context.Context, kind workflow.Kind, id int64) (int, error) {
	if kind == workflow.KindGoodsReceipt {
		items, err := s.receipts.GetItems(ctx, id)
		return len(items), err
	}
	items, err := s.progress.GetItems(ctx, id)
	return len(items), err
}

// notifySubmitted fans a submission out to reviewer-eligible users.
// Notification delivery never fails a transition.
func (s *WorkflowService) notifySubmitted(ctx context.Context, kind workflow.Kind, doc *docSnapshot) {
	vendor, err := s.users.GetByID(ctx, doc.VendorID)
	if err != nil || vendor == nil {
		s.logger.Warn("Skipping submission notification, vendor lookup failed",
			zap.Int64("vendor_id", doc.VendorID), zap.Error(err))
		return
	}
	if !s.notifier.DocumentSubmitted(ctx, kind, doc.ID, doc.Number, vendor) {
		s.logger.Warn("Submission notification delivery failed",
			zap.String("number", doc.Number))
	}
}

func (s *WorkflowService) notifyDecision(ctx context.Context, kind workflow.Kind, doc *docSnapshot, actor port.Actor, action, reason string) {
	actingUser, err := s.users.GetByID(ctx, actor.ID)
	if err != nil || actingUser == nil {
		s.logger.Warn("Skipping decision notification, actor lookup failed",
			zap.Int64("actor_id", actor.ID), zap.Error(err))
		return
	}

	var ok bool
	switch action {
	case entity.ActionApproved:
		ok = s.notifier.DocumentApproved(ctx, kind, doc.ID, doc.Number, actingUser, doc.VendorID)
	case entity.ActionRejected:
		ok = s.notifier.DocumentRejected(ctx, kind, doc.ID, doc.Number, actingUser, doc.VendorID, reason)
	case entity.ActionRevisionRequired:
		ok = s.notifier.DocumentRevisionRequired(ctx, kind, doc.ID, doc.Number, actingUser, doc.VendorID, reason)
	}
	if !ok {
		s.logger.Warn("Decision notification delivery failed",
			zap.String("number", doc.Number), zap.String("action", action))
	}
}
