package entity

import "time"

// PaymentLogEntry is one row per simulated payment attempt. Entries are
// append-only and independent of document status after the fact.
type PaymentLogEntry struct {
	ID              int64     `json:"id"`
	DocumentKind    string    `json:"document_kind"`
	DocumentID      int64     `json:"document_id"`
	DocumentNumber  string    `json:"document_number"`
	VendorID        int64     `json:"vendor_id"`
	Amount          float64   `json:"amount"`
	PaymentMethod   string    `json:"payment_method"`
	Status          string    `json:"status"`
	TransactionID   string    `json:"transaction_id"`
	GatewayResponse string    `json:"gateway_response"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// PaymentReadiness reports whether a document may have a payment simulated
// against it, with the blockers preventing it when not.
type PaymentReadiness struct {
	Ready    bool     `json:"ready"`
	Reason   string   `json:"reason"`
	Blockers []string `json:"blockers"`
}

// PaymentStatistics aggregates payment outcomes for reporting
type PaymentStatistics struct {
	TotalTransactions      int64   `json:"total_transactions"`
	SuccessfulTransactions int64   `json:"successful_transactions"`
	FailedTransactions     int64   `json:"failed_transactions"`
	TotalAmount            float64 `json:"total_amount"`
	AverageAmount          float64 `json:"average_amount"`
	SuccessRate            float64 `json:"success_rate"`
	GoodsReceiptCount      int64   `json:"goods_receipt_count"`
	WorkProgressCount      int64   `json:"work_progress_count"`
}
