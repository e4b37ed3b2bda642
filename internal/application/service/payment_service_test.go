package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

func approvedReceiptRepo() *mockGoodsReceiptRepo {
	return &mockGoodsReceiptRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.GoodsReceipt, error) {
			return &entity.GoodsReceipt{
				ID:       id,
				Number:   "BAPB/2026/09/0001",
				VendorID: 10,
				Status:   entity.StatusApproved,
			}, nil
		},
	}
}

func newPaymentService(
	receipts *mockGoodsReceiptRepo,
	progress *mockWorkProgressRepo,
	logs *mockPaymentLogRepo,
	users *mockUserRepo,
	gateway *mockGateway,
) *PaymentService {
	return NewPaymentService(receipts, progress, logs, users, gateway, zap.NewNop())
}

func TestPaymentService_Readiness(t *testing.T) {
	t.Run("approved document with active vendor is ready", func(t *testing.T) {
		svc := newPaymentService(approvedReceiptRepo(), &mockWorkProgressRepo{}, &mockPaymentLogRepo{}, &mockUserRepo{}, &mockGateway{})

		ready, err := svc.Readiness(context.Background(), workflow.KindGoodsReceipt, 1)
		if err != nil {
			t.Fatalf("Readiness() error = %v", err)
		}
		if !ready.Ready {
			t.Errorf("Readiness() = %+v, want ready", ready)
		}
	})

	t.Run("unapproved document blocked", func(t *testing.T) {
		receipts := &mockGoodsReceiptRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.GoodsReceipt, error) {
				return &entity.GoodsReceipt{ID: id, VendorID: 10, Status: entity.StatusInReview}, nil
			},
		}
		svc := newPaymentService(receipts, &mockWorkProgressRepo{}, &mockPaymentLogRepo{}, &mockUserRepo{}, &mockGateway{})

		ready, err := svc.Readiness(context.Background(), workflow.KindGoodsReceipt, 1)
		if err != nil {
			t.Fatalf("Readiness() error = %v", err)
		}
		if ready.Ready {
			t.Fatalf("Readiness() ready for in_review document")
		}
		if len(ready.Blockers) != 1 {
			t.Errorf("Readiness() blockers = %v, want 1", ready.Blockers)
		}
	})

	t.Run("prior successful payment blocks", func(t *testing.T) {
		logs := &mockPaymentLogRepo{
			hasSuccessfulFunc: func(ctx context.Context, kind string, docID int64) (bool, error) {
				return true, nil
			},
		}
		svc := newPaymentService(approvedReceiptRepo(), &mockWorkProgressRepo{}, logs, &mockUserRepo{}, &mockGateway{})

		ready, err := svc.Readiness(context.Background(), workflow.KindGoodsReceipt, 1)
		if err != nil {
			t.Fatalf("Readiness() error = %v", err)
		}
		if ready.Ready {
			t.Errorf("Readiness() ready despite prior success")
		}
	})

	t.Run("inactive vendor blocks", func(t *testing.T) {
		users := &mockUserRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
				return &entity.User{ID: id, IsActive: false}, nil
			},
		}
		svc := newPaymentService(approvedReceiptRepo(), &mockWorkProgressRepo{}, &mockPaymentLogRepo{}, users, &mockGateway{})

		ready, err := svc.Readiness(context.Background(), workflow.KindGoodsReceipt, 1)
		if err != nil {
			t.Fatalf("Readiness() error = %v", err)
		}
		if ready.Ready {
			t.Errorf("Readiness() ready despite inactive vendor")
		}
	})
}

func TestPaymentService_Process(t *testing.T) {
	t.Run("vendor cannot trigger payments", func(t *testing.T) {
		svc := newPaymentService(approvedReceiptRepo(), &mockWorkProgressRepo{}, &mockPaymentLogRepo{}, &mockUserRepo{}, &mockGateway{})

		amount := 1000.0
		_, err := svc.Process(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor},
			workflow.KindGoodsReceipt, 1, ProcessPaymentInput{Amount: &amount})
		if !apperror.IsForbidden(err) {
			t.Errorf("Process() error = %v, want forbidden", err)
		}
	})

	t.Run("unready document conflicts", func(t *testing.T) {
		receipts := &mockGoodsReceiptRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.GoodsReceipt, error) {
				return &entity.GoodsReceipt{ID: id, VendorID: 10, Status: entity.StatusSubmitted}, nil
			},
		}
		svc := newPaymentService(receipts, &mockWorkProgressRepo{}, &mockPaymentLogRepo{}, &mockUserRepo{}, &mockGateway{})

		amount := 1000.0
		_, err := svc.Process(context.Background(), port.Actor{ID: 1, Role: entity.RoleAdmin},
			workflow.KindGoodsReceipt, 1, ProcessPaymentInput{Amount: &amount})
		if !apperror.IsStateConflict(err) {
			t.Errorf("Process() error = %v, want state conflict", err)
		}
	})

	t.Run("goods receipt requires explicit amount", func(t *testing.T) {
		svc := newPaymentService(approvedReceiptRepo(), &mockWorkProgressRepo{}, &mockPaymentLogRepo{}, &mockUserRepo{}, &mockGateway{})

		_, err := svc.Process(context.Background(), port.Actor{ID: 1, Role: entity.RoleAdmin},
			workflow.KindGoodsReceipt, 1, ProcessPaymentInput{})
		if !apperror.IsValidation(err) {
			t.Errorf("Process() error = %v, want validation", err)
		}
	})

	t.Run("work progress defaults amount from contract and progress", func(t *testing.T) {
		progress := &mockWorkProgressRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.WorkProgress, error) {
				return &entity.WorkProgress{
					ID:             id,
					Number:         "BAPP/2026/09/0002",
					VendorID:       10,
					Status:         entity.StatusApproved,
					ContractAmount: 250_000_000,
					TotalProgress:  66.67,
				}, nil
			},
		}
		logs := &mockPaymentLogRepo{}
		gateway := &mockGateway{}
		svc := newPaymentService(&mockGoodsReceiptRepo{}, progress, logs, &mockUserRepo{}, gateway)

		entry, err := svc.Process(context.Background(), port.Actor{ID: 1, Role: entity.RoleApprover},
			workflow.KindWorkProgress, 1, ProcessPaymentInput{})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}

		want := 166_675_000.0 // 250M * 66.67%
		if entry.Amount != want {
			t.Errorf("Process() amount = %v, want %v", entry.Amount, want)
		}
		if gateway.lastRequest == nil || gateway.lastRequest.Amount != want {
			t.Errorf("Process() gateway amount = %+v", gateway.lastRequest)
		}
		if entry.PaymentMethod != "bank_transfer" {
			t.Errorf("Process() method = %s, want bank_transfer default", entry.PaymentMethod)
		}
		if entry.DocumentKind != entity.KindWorkProgress {
			t.Errorf("Process() kind = %s, want BAPP", entry.DocumentKind)
		}
		if len(logs.created) != 1 {
			t.Errorf("Process() wrote %d log rows, want 1", len(logs.created))
		}
	})

	t.Run("failed gateway outcome still logged", func(t *testing.T) {
		gateway := &mockGateway{
			attemptFunc: func(ctx context.Context, req port.PaymentRequest) (*port.PaymentResult, error) {
				return &port.PaymentResult{
					Status:       entity.PaymentStatusFailed,
					ErrorCode:    "ERR-102",
					ErrorMessage: "insufficient funds",
				}, nil
			},
		}
		logs := &mockPaymentLogRepo{}
		svc := newPaymentService(approvedReceiptRepo(), &mockWorkProgressRepo{}, logs, &mockUserRepo{}, gateway)

		amount := 5_000_000.0
		entry, err := svc.Process(context.Background(), port.Actor{ID: 1, Role: entity.RoleAdmin},
			workflow.KindGoodsReceipt, 1, ProcessPaymentInput{Amount: &amount})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if entry.Status != entity.PaymentStatusFailed {
			t.Errorf("Process() status = %s, want failed", entry.Status)
		}
		if len(logs.created) != 1 {
			t.Errorf("Process() wrote %d log rows, want 1", len(logs.created))
		}
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		svc := newPaymentService(approvedReceiptRepo(), &mockWorkProgressRepo{}, &mockPaymentLogRepo{}, &mockUserRepo{}, &mockGateway{})

		amount := -100.0
		_, err := svc.Process(context.Background(), port.Actor{ID: 1, Role: entity.RoleAdmin},
			workflow.KindGoodsReceipt, 1, ProcessPaymentInput{Amount: &amount})
		if !apperror.IsValidation(err) {
			t.Errorf("Process() error = %v, want validation", err)
		}
	})
}

func TestPaymentService_Statistics(t *testing.T) {
	var gotVendorID int64
	var gotKind string
	logs := &mockPaymentLogRepo{
		statisticsFunc: func(ctx context.Context, vendorID int64, kind string) (*entity.PaymentStatistics, error) {
			gotVendorID, gotKind = vendorID, kind
			return &entity.PaymentStatistics{}, nil
		},
	}
	svc := newPaymentService(&mockGoodsReceiptRepo{}, &mockWorkProgressRepo{}, logs, &mockUserRepo{}, &mockGateway{})

	if _, err := svc.Statistics(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor}, entity.KindGoodsReceipt); err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if gotVendorID != 10 || gotKind != entity.KindGoodsReceipt {
		t.Errorf("Statistics() vendor = %d kind = %s", gotVendorID, gotKind)
	}

	if _, err := svc.Statistics(context.Background(), port.Actor{ID: 10, Role: entity.RoleAdmin}, ""); err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if gotVendorID != 0 {
		t.Errorf("Statistics() admin vendor scope = %d, want 0", gotVendorID)
	}
}
