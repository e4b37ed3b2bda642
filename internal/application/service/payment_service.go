package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// PaymentService derives payment readiness from document state and drives the
// simulated gateway. Payments never feed back into document status.
type PaymentService struct {
	receipts port.GoodsReceiptRepository
	progress port.WorkProgressRepository
	logs     port.PaymentLogRepository
	users    port.UserRepository
	gateway  port.PaymentGateway
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a PaymentService
func NewPaymentService(
	receipts port.GoodsReceiptRepository,
	progress port.WorkProgressRepository,
	logs port.PaymentLogRepository,
	users port.UserRepository,
	gateway port.PaymentGateway,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		receipts: receipts,
		progress: progress,
		logs:     logs,
		users:    users,
		gateway:  gateway,
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessPaymentInput is the payment trigger payload. Amount is optional for
// work progress documents, where it defaults to the progress-derived value.
type ProcessPaymentInput struct {
	Amount        *float64 `json:"amount"`
	PaymentMethod string   `json:"payment_method"`
	Description   string   `json:"description"`
}

// paymentTarget is the kind-independent view of a payable document
type paymentTarget struct {
	Kind          string
	ID            int64
	Number        string
	VendorID      int64
	Status        string
	DefaultAmount float64
	HasDefault    bool
	ProjectName   string
}

func (s *PaymentService) target(ctx context.Context, kind workflow.Kind, id int64) (*paymentTarget, error) {
	switch kind {
	case workflow.KindGoodsReceipt:
		doc, err := s.receipts.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, apperror.NewNotFound("goods receipt", id)
		}
		return &paymentTarget{
			Kind:     entity.KindGoodsReceipt,
			ID:       doc.ID,
			Number:   doc.Number,
			VendorID: doc.VendorID,
			Status:   doc.Status,
		}, nil
	case workflow.KindWorkProgress:
		doc, err := s.progress.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, apperror.NewNotFound("work progress", id)
		}
		return &paymentTarget{
			Kind:          entity.KindWorkProgress,
			ID:            doc.ID,
			Number:        doc.Number,
			VendorID:      doc.VendorID,
			Status:        doc.Status,
			DefaultAmount: math.Round(doc.ContractAmount*doc.TotalProgress) / 100,
			HasDefault:    true,
			ProjectName:   doc.ProjectName,
		}, nil
	default:
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
}

// Readiness reports whether the document may have a payment simulated against
// it. A pure query: no side effects, no transition.
func (s *PaymentService) Readiness(ctx context.Context, kind workflow.Kind, id int64) (*entity.PaymentReadiness, error) {
	target, err := s.target(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.readiness(ctx, target)
}

func (s *PaymentService) readiness(ctx context.Context, target *paymentTarget) (*entity.PaymentReadiness, error) {
	var blockers []string

	if target.Status != entity.StatusApproved {
		blockers = append(blockers, fmt.Sprintf("document is not approved (current status: %s)", target.Status))
	}

	paid, err := s.logs.HasSuccessfulPayment(ctx, target.Kind, target.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		blockers = append(blockers, "a successful payment already exists for this document")
	}

	vendor, err := s.users.GetByID(ctx, target.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		blockers = append(blockers, "vendor account not found")
	} else if !vendor.IsActive {
		blockers = append(blockers, "vendor account is inactive")
	}

	if len(blockers) > 0 {
		return &entity.PaymentReadiness{
			Ready:    false,
			Reason:   blockers[0],
			Blockers: blockers,
		}, nil
	}
	return &entity.PaymentReadiness{Ready: true, Reason: "document is ready for payment"}, nil
}

// Process runs one simulated payment attempt against an approved document and
// appends the outcome to the payment log whatever the gateway decides.
func (s *PaymentService) Process(ctx context.Context, actor port.Actor, kind workflow.Kind, id int64, in ProcessPaymentInput) (*entity.PaymentLogEntry, error) {
	if actor.Role != entity.RoleApprover && actor.Role != entity.RoleAdmin {
		return nil, apperror.NewForbidden("your role cannot trigger payments")
	}

	target, err := s.target(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	ready, err := s.readiness(ctx, target)
	if err != nil {
		return nil, err
	}
	if !ready.Ready {
		return nil, apperror.NewStateConflict("process payment", target.Status, entity.StatusApproved)
	}

	amount, err := resolveAmount(in.Amount, target)
	if err != nil {
		return nil, err
	}
	method := in.PaymentMethod
	if method == "" {
		method = "bank_transfer"
	}
	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Pembayaran %s %s", target.Kind, target.Number)
	}

	vendor, err := s.users.GetByID(ctx, target.VendorID)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.AttemptPayment(ctx, port.PaymentRequest{
		DocumentKind:   target.Kind,
		DocumentNumber: target.Number,
		VendorID:       target.VendorID,
		VendorName:     vendor.Name,
		Amount:         amount,
		PaymentMethod:  method,
		Description:    description,
	})
	if err != nil {
		return nil, fmt.Errorf("payment gateway failed: %w", err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize gateway response: %w", err)
	}

	entry := &entity.PaymentLogEntry{
		DocumentKind:    target.Kind,
		DocumentID:      target.ID,
		DocumentNumber:  target.Number,
		VendorID:        target.VendorID,
		Amount:          amount,
		PaymentMethod:   method,
		Status:          result.Status,
		TransactionID:   result.TransactionID,
		GatewayResponse: string(raw),
		ProcessedAt:     s.now(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Payment processed",
		zap.String("document", target.Number),
		zap.String("status", result.Status),
		zap.String("transaction_id", result.TransactionID))
	return entry, nil
}

// resolveAmount applies the progress-derived default when no explicit amount
// is supplied for a work progress document.
func resolveAmount(explicit *float64, target *paymentTarget) (float64, error) {
	if explicit != nil {
		if *explicit <= 0 {
			return 0, apperror.NewValidation(apperror.FieldError{
				Field: "amount", Message: "amount must be positive",
			})
		}
		return *explicit, nil
	}
	if target.HasDefault && target.DefaultAmount > 0 {
		return target.DefaultAmount, nil
	}
	return 0, apperror.NewValidation(apperror.FieldError{
		Field: "amount", Message: "amount is required",
	})
}

// Logs returns the document's payment attempts, newest first
func (s *PaymentService) Logs(ctx context.Context, kind workflow.Kind, id int64) ([]*entity.PaymentLogEntry, error) {
	target, err := s.target(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.logs.ListByDocument(ctx, target.Kind, target.ID)
}

// Statistics aggregates payment outcomes, vendor-scoped for vendor callers.
// kindFilter is empty, BAPB or BAPP.
func (s *PaymentService) Statistics(ctx context.Context, actor port.Actor, kindFilter string) (*entity.PaymentStatistics, error) {
	var vendorID int64
	if actor.Role == entity.RoleVendor {
		vendorID = actor.ID
	}
	return s.logs.Statistics(ctx, vendorID, kindFilter)
}
