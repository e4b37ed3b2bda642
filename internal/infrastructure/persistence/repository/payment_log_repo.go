package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// PaymentLogRepository implements port.PaymentLogRepository. Rows are
// append-only records of every simulated payment attempt.
type PaymentLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentLogRepository creates a new payment log repository
func NewPaymentLogRepository(db *sql.DB, logger *zap.Logger) port.PaymentLogRepository {
	return &PaymentLogRepository{db: db, logger: logger}
}

// Create inserts one payment attempt
func (r *PaymentLogRepository) Create(ctx context.Context, log *entity.PaymentLogEntry) error {
	query := `
		INSERT INTO payment_logs (
			document_kind, document_id, document_number, vendor_id, amount,
			payment_method, status, transaction_id, gateway_response, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		log.DocumentKind, log.DocumentID, log.DocumentNumber, log.VendorID,
		log.Amount, log.PaymentMethod, log.Status, log.TransactionID,
		log.GatewayResponse, log.ProcessedAt)
	if err != nil {
		r.logger.Error("Failed to create payment log", zap.Error(err))
		return fmt.Errorf("failed to create payment log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// ListByDocument retrieves a document's payment attempts, newest first
func (r *PaymentLogRepository) ListByDocument(ctx context.Context, kind string, docID int64) ([]*entity.PaymentLogEntry, error) {
	query := `
		SELECT id, document_kind, document_id, document_number, vendor_id, amount,
			payment_method, status, transaction_id, gateway_response, processed_at
		FROM payment_logs
		WHERE document_kind = ? AND document_id = ?
		ORDER BY processed_at DESC, id DESC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, kind, docID)
	if err != nil {
		r.logger.Error("Failed to list payment logs",
			zap.String("kind", kind), zap.Int64("document_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to list payment logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.PaymentLogEntry
	for rows.Next() {
		var log entity.PaymentLogEntry
		if err := rows.Scan(
			&log.ID, &log.DocumentKind, &log.DocumentID, &log.DocumentNumber,
			&log.VendorID, &log.Amount, &log.PaymentMethod, &log.Status,
			&log.TransactionID, &log.GatewayResponse, &log.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment log: %w", err)
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

// ListRecent returns the newest payment attempts across every document
func (r *PaymentLogRepository) ListRecent(ctx context.Context, limit int) ([]*entity.PaymentLogEntry, error) {
	query := `
		SELECT id, document_kind, document_id, document_number, vendor_id, amount,
			payment_method, status, transaction_id, gateway_response, processed_at
		FROM payment_logs
		ORDER BY processed_at DESC, id DESC
		LIMIT ?
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list recent payment logs", zap.Error(err))
		return nil, fmt.Errorf("failed to list payment logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.PaymentLogEntry
	for rows.Next() {
		var log entity.PaymentLogEntry
		if err := rows.Scan(
			&log.ID, &log.DocumentKind, &log.DocumentID, &log.DocumentNumber,
			&log.VendorID, &log.Amount, &log.PaymentMethod, &log.Status,
			&log.TransactionID, &log.GatewayResponse, &log.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment log: %w", err)
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

// HasSuccessfulPayment reports whether the document already has a successful
// payment attempt, which blocks further payment readiness
func (r *PaymentLogRepository) HasSuccessfulPayment(ctx context.Context, kind string, docID int64) (bool, error) {
	var count int64
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM payment_logs
		WHERE document_kind = ? AND document_id = ? AND status = ?
	`, kind, docID, entity.PaymentStatusSuccess).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check successful payment: %w", err)
	}
	return count > 0, nil
}

// Statistics aggregates payment outcomes, optionally scoped to a vendor
// and/or document kind
func (r *PaymentLogRepository) Statistics(ctx context.Context, vendorID int64, kind string) (*entity.PaymentStatistics, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if vendorID > 0 {
		where += " AND vendor_id = ?"
		args = append(args, vendorID)
	}
	if kind != "" {
		where += " AND document_kind = ?"
		args = append(args, kind)
	}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'success' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN document_kind = 'BAPB' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN document_kind = 'BAPP' THEN 1 ELSE 0 END), 0)
		FROM payment_logs` + where

	stats := &entity.PaymentStatistics{}
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalTransactions,
		&stats.SuccessfulTransactions,
		&stats.FailedTransactions,
		&stats.TotalAmount,
		&stats.GoodsReceiptCount,
		&stats.WorkProgressCount,
	)
	if err != nil {
		r.logger.Error("Failed to compute payment statistics", zap.Error(err))
		return nil, fmt.Errorf("failed to compute payment statistics: %w", err)
	}

	if stats.SuccessfulTransactions > 0 {
		stats.AverageAmount = stats.TotalAmount / float64(stats.SuccessfulTransactions)
	}
	if stats.TotalTransactions > 0 {
		stats.SuccessRate = float64(stats.SuccessfulTransactions) / float64(stats.TotalTransactions) * 100
	}
	return stats, nil
}

// Verify interface compliance
var _ port.PaymentLogRepository = (*PaymentLogRepository)(nil)
