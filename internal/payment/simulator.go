// Package payment provides the simulated payment gateway. No money moves:
// outcomes are randomized and logged, nothing feeds back into documents.
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

const (
	successRate = 0.95
	minDelay    = 100 * time.Millisecond
	maxDelay    = 500 * time.Millisecond

	txnAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	txnLength   = 12
)

// failureReasons is the pool of simulated decline messages
var failureReasons = []string{
	"Insufficient funds in settlement account",
	"Vendor bank account verification failed",
	"Payment gateway timeout",
	"Daily transfer limit exceeded",
	"Beneficiary account is frozen",
}

// Simulator implements the payment gateway by sleeping a random processing
// delay and rolling a die. Roughly one attempt in twenty fails.
type Simulator struct {
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSimulator creates a Simulator
func NewSimulator(logger *zap.Logger) *Simulator {
	return &Simulator{
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// AttemptPayment simulates one payment attempt. The context deadline is
// honored during the artificial processing delay.
func (s *Simulator) AttemptPayment(ctx context.Context, req port.PaymentRequest) (*port.PaymentResult, error) {
	s.mu.Lock()
	delay := minDelay + time.Duration(s.rng.Int63n(int64(maxDelay-minDelay)))
	roll := s.rng.Float64()
	s.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	txnID, err := gonanoid.Generate(txnAlphabet, txnLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}
	txnID = "TXN-" + txnID

	now := s.now()
	result := &port.PaymentResult{
		TransactionID:  txnID,
		Timestamp:      now.Format(time.RFC3339),
		Amount:         req.Amount,
		Currency:       "IDR",
		PaymentMethod:  req.PaymentMethod,
		SimulationMode: true,
	}

	if roll < successRate {
		result.Status = entity.PaymentStatusSuccess
		result.EstimatedSettlement = now.AddDate(0, 0, 1).Format("2006-01-02")
		result.GatewayReference = fmt.Sprintf("REF-%d", now.UnixNano())
		result.Message = fmt.Sprintf("Payment to vendor %s processed", req.VendorName)
	} else {
		idx := s.pick(len(failureReasons))
		result.Status = entity.PaymentStatusFailed
		result.ErrorCode = fmt.Sprintf("ERR-%03d", 100+idx)
		result.ErrorMessage = failureReasons[idx]
	}

	s.logger.Debug("Simulated payment attempt",
		zap.String("document", req.DocumentNumber),
		zap.String("status", result.Status),
		zap.Duration("delay", delay))
	return result, nil
}

func (s *Simulator) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

var _ port.PaymentGateway = (*Simulator)(nil)
