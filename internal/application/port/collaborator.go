package port

import (
	"context"

	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// Actor is the authenticated identity attached to every engine call
type Actor struct {
	ID   int64
	Role string
}

// Notifier dispatches workflow event notifications. Implementations are
// best-effort: a false return means delivery failed, and failures must never
// propagate past this boundary.
type Notifier interface {
	DocumentSubmitted(ctx context.Context, kind workflow.Kind, docID int64, number string, vendor *entity.User) bool
	DocumentApproved(ctx context.Context, kind workflow.Kind, docID int64, number string, approver *entity.User, vendorID int64) bool
	DocumentRejected(ctx context.Context, kind workflow.Kind, docID int64, number string, rejector *entity.User, vendorID int64, reason string) bool
	DocumentRevisionRequired(ctx context.Context, kind workflow.Kind, docID int64, number string, reviewer *entity.User, vendorID int64, reason string) bool
}

// PaymentGateway simulates an external payment processor
type PaymentGateway interface {
	AttemptPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// PaymentRequest is the payload handed to the gateway
type PaymentRequest struct {
	DocumentKind   string
	DocumentNumber string
	VendorID       int64
	VendorName     string
	Amount         float64
	PaymentMethod  string
	Description    string
}

// PaymentResult is the gateway's serialized outcome
type PaymentResult struct {
	Status              string  `json:"status"`
	TransactionID       string  `json:"transaction_id"`
	Timestamp           string  `json:"timestamp"`
	Amount              float64 `json:"amount"`
	Currency            string  `json:"currency,omitempty"`
	PaymentMethod       string  `json:"payment_method,omitempty"`
	EstimatedSettlement string  `json:"estimated_settlement,omitempty"`
	GatewayReference    string  `json:"gateway_reference,omitempty"`
	ErrorCode           string  `json:"error_code,omitempty"`
	ErrorMessage        string  `json:"error_message,omitempty"`
	Message             string  `json:"message,omitempty"`
	SimulationMode      bool    `json:"simulation_mode"`
}

// FileStore persists binary artifacts under a storage root
type FileStore interface {
	Save(relPath string, content []byte) (string, error)
	Delete(relPath string) error
	FullPath(relPath string) string
	Exists(relPath string) bool
}
