package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

func testRequest() port.PaymentRequest {
	return port.PaymentRequest{
		DocumentKind:   entity.KindGoodsReceipt,
		DocumentNumber: "BAPB/2026/09/0001",
		VendorID:       10,
		VendorName:     "PT Maju Jaya",
		Amount:         5_000_000,
		PaymentMethod:  "bank_transfer",
	}
}

func TestSimulator_AttemptPayment(t *testing.T) {
	sim := NewSimulator(zap.NewNop())

	result, err := sim.AttemptPayment(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("AttemptPayment() error = %v", err)
	}

	if !strings.HasPrefix(result.TransactionID, "TXN-") {
		t.Errorf("TransactionID = %s, want TXN- prefix", result.TransactionID)
	}
	if len(result.TransactionID) != len("TXN-")+txnLength {
		t.Errorf("TransactionID = %s, want %d random characters", result.TransactionID, txnLength)
	}
	if result.Amount != 5_000_000 {
		t.Errorf("Amount = %v, want request amount", result.Amount)
	}
	if result.Currency != "IDR" {
		t.Errorf("Currency = %s, want IDR", result.Currency)
	}
	if !result.SimulationMode {
		t.Errorf("SimulationMode = false, want true")
	}
	if _, err := time.Parse(time.RFC3339, result.Timestamp); err != nil {
		t.Errorf("Timestamp %s not RFC3339: %v", result.Timestamp, err)
	}

	switch result.Status {
	case entity.PaymentStatusSuccess:
		if result.EstimatedSettlement == "" || result.GatewayReference == "" {
			t.Errorf("success result missing settlement fields: %+v", result)
		}
		if _, err := time.Parse("2006-01-02", result.EstimatedSettlement); err != nil {
			t.Errorf("EstimatedSettlement %s not a date: %v", result.EstimatedSettlement, err)
		}
	case entity.PaymentStatusFailed:
		if result.ErrorCode == "" || result.ErrorMessage == "" {
			t.Errorf("failed result missing error fields: %+v", result)
		}
	default:
		t.Errorf("Status = %s, want success or failed", result.Status)
	}
}

func TestSimulator_ContextCancellation(t *testing.T) {
	sim := NewSimulator(zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sim.AttemptPayment(ctx, testRequest())
	if err == nil {
		t.Fatalf("AttemptPayment() expected context error, got nil")
	}
	if ctx.Err() == nil {
		t.Errorf("context not done after cancellation test")
	}
}
