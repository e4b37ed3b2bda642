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

// ApprovalRepository implements port.ApprovalRepository against one of the
// two per-kind ledger tables. The ledger is append-only: this type exposes
// no update or delete.
type ApprovalRepository struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

// NewGoodsReceiptApprovalRepository creates the goods receipt ledger
func NewGoodsReceiptApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{db: db, table: "goods_receipt_approvals", logger: logger}
}

// NewWorkProgressApprovalRepository creates the work progress ledger
func NewWorkProgressApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{db: db, table: "work_progress_approvals", logger: logger}
}

// Create appends one approval action to the ledger
func (r *ApprovalRepository) Create(ctx context.Context, record *entity.ApprovalRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, approver_id, action, notes)
		VALUES (?, ?, ?, ?)
	`, r.table)

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		record.DocumentID, record.ApproverID, record.Action, record.Notes)
	if err != nil {
		r.logger.Error("Failed to create approval record",
			zap.String("table", r.table), zap.Int64("document_id", record.DocumentID), zap.Error(err))
		return fmt.Errorf("failed to create approval record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return nil
}

// ListByDocument retrieves the document's ledger, newest first, with the
// acting user joined in
func (r *ApprovalRepository) ListByDocument(ctx context.Context, docID int64) ([]*entity.ApprovalRecord, error) {
	query := fmt.Sprintf(`
		SELECT a.id, a.document_id, a.approver_id, a.action, a.notes, a.created_at,
			u.id, u.name, u.email, u.role
		FROM %s a
		JOIN users u ON u.id = a.approver_id
		WHERE a.document_id = ?
		ORDER BY a.created_at DESC, a.id DESC
	`, r.table)

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, docID)
	if err != nil {
		r.logger.Error("Failed to list approval records",
			zap.String("table", r.table), zap.Int64("document_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to list approval records: %w", err)
	}
	defer rows.Close()

	var records []*entity.ApprovalRecord
	for rows.Next() {
		var rec entity.ApprovalRecord
		var approver entity.User
		if err := rows.Scan(
			&rec.ID, &rec.DocumentID, &rec.ApproverID, &rec.Action, &rec.Notes, &rec.CreatedAt,
			&approver.ID, &approver.Name, &approver.Email, &approver.Role,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval record: %w", err)
		}
		rec.Approver = &approver
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// HasApprovedBy reports whether the user already has an approved action in
// the document's ledger. Read inside the transition transaction to enforce
// at most one approval per (document, user) pair.
func (r *ApprovalRepository) HasApprovedBy(ctx context.Context, docID, approverID int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE document_id = ? AND approver_id = ? AND action = ?
	`, r.table)

	var count int64
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query,
		docID, approverID, entity.ActionApproved).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check existing approval: %w", err)
	}
	return count > 0, nil
}

// Verify interface compliance
var _ port.ApprovalRepository = (*ApprovalRepository)(nil)
