package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/infrastructure/persistence/sqlite"
	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// GoodsReceiptRepository implements port.GoodsReceiptRepository
type GoodsReceiptRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGoodsReceiptRepository creates a new goods receipt repository
func NewGoodsReceiptRepository(db *sql.DB, logger *zap.Logger) port.GoodsReceiptRepository {
	return &GoodsReceiptRepository{db: db, logger: logger}
}

const goodsReceiptColumns = `
	id, number, vendor_id, warehouse_pic_id, order_number, delivery_date,
	status, notes, rejection_reason, created_at, updated_at
`

// Create inserts a new goods receipt. A unique-constraint violation on the
// document number (racy concurrent creation) surfaces as a ConflictError.
func (r *GoodsReceiptRepository) Create(ctx context.Context, doc *entity.GoodsReceipt) error {
	query := `
		INSERT INTO goods_receipts (
			number, vendor_id, warehouse_pic_id, order_number, delivery_date,
			status, notes, rejection_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		doc.Number,
		doc.VendorID,
		doc.WarehousePICID,
		doc.OrderNumber,
		doc.DeliveryDate,
		doc.Status,
		doc.Notes,
		doc.RejectionReason,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict(
				fmt.Sprintf("document number %s already exists", doc.Number), err)
		}
		r.logger.Error("Failed to create goods receipt", zap.Error(err))
		return fmt.Errorf("failed to create goods receipt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByID retrieves a goods receipt by ID; returns nil when absent
func (r *GoodsReceiptRepository) GetByID(ctx context.Context, id int64) (*entity.GoodsReceipt, error) {
	query := `SELECT ` + goodsReceiptColumns + ` FROM goods_receipts WHERE id = ?`

	doc, err := scanGoodsReceipt(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get goods receipt", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get goods receipt: %w", err)
	}
	return doc, nil
}

// List retrieves goods receipts matching the filter, newest first, with the
// total count for pagination
func (r *GoodsReceiptRepository) List(ctx context.Context, filter port.GoodsReceiptFilter) ([]*entity.GoodsReceipt, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.VendorID > 0 {
		where += " AND vendor_id = ?"
		args = append(args, filter.VendorID)
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM goods_receipts" + where
	if err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count goods receipts: %w", err)
	}

	query := "SELECT " + goodsReceiptColumns + " FROM goods_receipts" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list goods receipts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list goods receipts: %w", err)
	}
	defer rows.Close()

	var docs []*entity.GoodsReceipt
	for rows.Next() {
		doc, err := scanGoodsReceipt(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan goods receipt: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}

// Update rewrites the vendor-editable fields of a goods receipt
func (r *GoodsReceiptRepository) Update(ctx context.Context, doc *entity.GoodsReceipt) error {
	query := `
		UPDATE goods_receipts
		SET order_number = ?, delivery_date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		doc.OrderNumber, doc.DeliveryDate, doc.Notes, doc.ID)
	if err != nil {
		r.logger.Error("Failed to update goods receipt", zap.Int64("id", doc.ID), zap.Error(err))
		return fmt.Errorf("failed to update goods receipt: %w", err)
	}
	return nil
}

// UpdateStatus sets status and, when provided, the rejection reason and the
// lazily assigned reviewer. Callers run this inside the same transaction as
// the ledger write.
func (r *GoodsReceiptRepository) UpdateStatus(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error {
	query := `UPDATE goods_receipts SET status = ?, updated_at = CURRENT_TIMESTAMP`
	args := []interface{}{status}

	if rejectionReason != "" {
		query += `, rejection_reason = ?`
		args = append(args, rejectionReason)
	}
	if reviewerID != nil {
		query += `, warehouse_pic_id = ?`
		args = append(args, *reviewerID)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update goods receipt status",
			zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// Delete removes a goods receipt; items, ledger rows and attachments cascade
func (r *GoodsReceiptRepository) Delete(ctx context.Context, id int64) error {
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM goods_receipts WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete goods receipt", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete goods receipt: %w", err)
	}
	return nil
}

// CountCreatedSince counts documents created at or after the given instant,
// used by the monthly number sequence
func (r *GoodsReceiptRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM goods_receipts WHERE created_at >= ?`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count goods receipts: %w", err)
	}
	return count, nil
}

// CountByStatus aggregates per-status counts, optionally scoped to a vendor
func (r *GoodsReceiptRepository) CountByStatus(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error) {
	return countByStatus(ctx, sqlite.ExecutorFrom(ctx, r.db), "goods_receipts", vendorID)
}

// ReplaceItems deletes all existing items of the document and inserts the new
// set. The replacement is wholesale: no diffing, no merge.
func (r *GoodsReceiptRepository) ReplaceItems(ctx context.Context, docID int64, items []*entity.GoodsReceiptItem) error {
	exec := sqlite.ExecutorFrom(ctx, r.db)

	if _, err := exec.ExecContext(ctx,
		`DELETE FROM goods_receipt_items WHERE goods_receipt_id = ?`, docID); err != nil {
		r.logger.Error("Failed to delete goods receipt items", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete items: %w", err)
	}

	query := `
		INSERT INTO goods_receipt_items (
			goods_receipt_id, item_name, quantity_ordered, quantity_received,
			unit, condition, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range items {
		result, err := exec.ExecContext(ctx, query,
			docID, item.ItemName, item.QuantityOrdered, item.QuantityReceived,
			item.Unit, item.Condition, item.Notes)
		if err != nil {
			r.logger.Error("Failed to insert goods receipt item", zap.Int64("doc_id", docID), zap.Error(err))
			return fmt.Errorf("failed to insert item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.ID = id
		item.GoodsReceiptID = docID
	}
	return nil
}

// GetItems retrieves the document's items in insertion order
func (r *GoodsReceiptRepository) GetItems(ctx context.Context, docID int64) ([]*entity.GoodsReceiptItem, error) {
	query := `
		SELECT id, goods_receipt_id, item_name, quantity_ordered, quantity_received,
			unit, condition, notes
		FROM goods_receipt_items
		WHERE goods_receipt_id = ?
		ORDER BY id
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, docID)
	if err != nil {
		r.logger.Error("Failed to get goods receipt items", zap.Int64("doc_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []*entity.GoodsReceiptItem
	for rows.Next() {
		var item entity.GoodsReceiptItem
		if err := rows.Scan(
			&item.ID, &item.GoodsReceiptID, &item.ItemName, &item.QuantityOrdered,
			&item.QuantityReceived, &item.Unit, &item.Condition, &item.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoodsReceipt(row rowScanner) (*entity.GoodsReceipt, error) {
	var doc entity.GoodsReceipt
	var picID sql.NullInt64

	err := row.Scan(
		&doc.ID, &doc.Number, &doc.VendorID, &picID, &doc.OrderNumber,
		&doc.DeliveryDate, &doc.Status, &doc.Notes, &doc.RejectionReason,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if picID.Valid {
		doc.WarehousePICID = &picID.Int64
	}
	return &doc, nil
}

// countByStatus is shared by both document repositories
func countByStatus(ctx context.Context, exec sqlite.Executor, table string, vendorID int64) (*entity.DocumentStatistics, error) {
	query := `
		SELECT status, COUNT(*) FROM ` + table
	args := []interface{}{}
	if vendorID > 0 {
		query += ` WHERE vendor_id = ?`
		args = append(args, vendorID)
	}
	query += ` GROUP BY status`

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	stats := &entity.DocumentStatistics{}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.Total += count
		switch status {
		case entity.StatusDraft:
			stats.Draft = count
		case entity.StatusSubmitted:
			stats.Submitted = count
		case entity.StatusInReview:
			stats.InReview = count
		case entity.StatusApproved:
			stats.Approved = count
		case entity.StatusRejected:
			stats.Rejected = count
		case entity.StatusRevisionRequired:
			stats.RevisionRequired = count
		}
	}
	return stats, rows.Err()
}

// isUniqueViolation reports whether err is a sqlite unique-constraint error
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Verify interface compliance
var _ port.GoodsReceiptRepository = (*GoodsReceiptRepository)(nil)
