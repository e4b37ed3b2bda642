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

// AttachmentRepository implements port.AttachmentRepository against one of
// the two per-kind attachment tables
type AttachmentRepository struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

// NewGoodsReceiptAttachmentRepository creates the goods receipt attachment store
func NewGoodsReceiptAttachmentRepository(db *sql.DB, logger *zap.Logger) port.AttachmentRepository {
	return &AttachmentRepository{db: db, table: "goods_receipt_attachments", logger: logger}
}

// NewWorkProgressAttachmentRepository creates the work progress attachment store
func NewWorkProgressAttachmentRepository(db *sql.DB, logger *zap.Logger) port.AttachmentRepository {
	return &AttachmentRepository{db: db, table: "work_progress_attachments", logger: logger}
}

// Create inserts attachment metadata
func (r *AttachmentRepository) Create(ctx context.Context, att *entity.Attachment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, file_type, file_path, file_name, uploaded_by)
		VALUES (?, ?, ?, ?, ?)
	`, r.table)

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		att.DocumentID, att.FileType, att.FilePath, att.FileName, att.UploadedBy)
	if err != nil {
		r.logger.Error("Failed to create attachment",
			zap.String("table", r.table), zap.Int64("document_id", att.DocumentID), zap.Error(err))
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	att.ID = id
	return nil
}

// GetByID retrieves attachment metadata by ID; returns nil when absent
func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*entity.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, file_type, file_path, file_name, uploaded_by, created_at
		FROM %s WHERE id = ?
	`, r.table)

	var att entity.Attachment
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&att.ID, &att.DocumentID, &att.FileType, &att.FilePath,
		&att.FileName, &att.UploadedBy, &att.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get attachment", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &att, nil
}

// ListByDocument retrieves a document's attachments, optionally filtered by
// file type, newest first
func (r *AttachmentRepository) ListByDocument(ctx context.Context, docID int64, fileType string) ([]*entity.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, file_type, file_path, file_name, uploaded_by, created_at
		FROM %s WHERE document_id = ?
	`, r.table)
	args := []interface{}{docID}
	if fileType != "" {
		query += ` AND file_type = ?`
		args = append(args, fileType)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list attachments",
			zap.String("table", r.table), zap.Int64("document_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var atts []*entity.Attachment
	for rows.Next() {
		var att entity.Attachment
		if err := rows.Scan(
			&att.ID, &att.DocumentID, &att.FileType, &att.FilePath,
			&att.FileName, &att.UploadedBy, &att.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		atts = append(atts, &att)
	}
	return atts, rows.Err()
}

// Delete removes attachment metadata
func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete attachment", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.AttachmentRepository = (*AttachmentRepository)(nil)
