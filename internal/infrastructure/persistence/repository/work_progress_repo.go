package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// WorkProgressRepository implements port.WorkProgressRepository
type WorkProgressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkProgressRepository creates a new work progress repository
func NewWorkProgressRepository(db *sql.DB, logger *zap.Logger) port.WorkProgressRepository {
	return &WorkProgressRepository{db: db, logger: logger}
}

const workProgressColumns = `
	id, number, vendor_id, project_director_id, contract_number, contract_amount,
	project_name, project_location, start_date, end_date, completion_date,
	status, total_progress, notes, rejection_reason, created_at, updated_at
`

// Create inserts a new work progress report. A duplicate document number
// surfaces as a ConflictError.
func (r *WorkProgressRepository) Create(ctx context.Context, doc *entity.WorkProgress) error {
	query := `
		INSERT INTO work_progresses (
			number, vendor_id, project_director_id, contract_number, contract_amount,
			project_name, project_location, start_date, end_date, completion_date,
			status, total_progress, notes, rejection_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		doc.Number,
		doc.VendorID,
		doc.ProjectDirectorID,
		doc.ContractNumber,
		doc.ContractAmount,
		doc.ProjectName,
		doc.ProjectLocation,
		doc.StartDate,
		doc.EndDate,
		doc.CompletionDate,
		doc.Status,
		doc.TotalProgress,
		doc.Notes,
		doc.RejectionReason,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict(
				fmt.Sprintf("document number %s already exists", doc.Number), err)
		}
		r.logger.Error("Failed to create work progress", zap.Error(err))
		return fmt.Errorf("failed to create work progress: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByID retrieves a work progress report by ID; returns nil when absent
func (r *WorkProgressRepository) GetByID(ctx context.Context, id int64) (*entity.WorkProgress, error) {
	query := `SELECT ` + workProgressColumns + ` FROM work_progresses WHERE id = ?`

	doc, err := scanWorkProgress(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get work progress", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get work progress: %w", err)
	}
	return doc, nil
}

// List retrieves work progress reports matching the filter, newest first
func (r *WorkProgressRepository) List(ctx context.Context, filter port.WorkProgressFilter) ([]*entity.WorkProgress, int64, error) {
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
	countQuery := "SELECT COUNT(*) FROM work_progresses" + where
	if err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work progresses: %w", err)
	}

	query := "SELECT " + workProgressColumns + " FROM work_progresses" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list work progresses", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list work progresses: %w", err)
	}
	defer rows.Close()

	var docs []*entity.WorkProgress
	for rows.Next() {
		doc, err := scanWorkProgress(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan work progress: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}

// Update rewrites the vendor-editable fields, including the recomputed
// total progress
func (r *WorkProgressRepository) Update(ctx context.Context, doc *entity.WorkProgress) error {
	query := `
		UPDATE work_progresses
		SET contract_number = ?, contract_amount = ?, project_name = ?,
			project_location = ?, start_date = ?, end_date = ?,
			completion_date = ?, total_progress = ?, notes = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		doc.ContractNumber, doc.ContractAmount, doc.ProjectName, doc.ProjectLocation,
		doc.StartDate, doc.EndDate, doc.CompletionDate,
		doc.TotalProgress, doc.Notes, doc.ID)
	if err != nil {
		r.logger.Error("Failed to update work progress", zap.Int64("id", doc.ID), zap.Error(err))
		return fmt.Errorf("failed to update work progress: %w", err)
	}
	return nil
}

// UpdateStatus sets status and, when provided, the rejection reason and the
// lazily assigned project director
func (r *WorkProgressRepository) UpdateStatus(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error {
	query := `UPDATE work_progresses SET status = ?, updated_at = CURRENT_TIMESTAMP`
	args := []interface{}{status}

	if rejectionReason != "" {
		query += `, rejection_reason = ?`
		args = append(args, rejectionReason)
	}
	if reviewerID != nil {
		query += `, project_director_id = ?`
		args = append(args, *reviewerID)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update work progress status",
			zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// Delete removes a work progress report; dependent rows cascade
func (r *WorkProgressRepository) Delete(ctx context.Context, id int64) error {
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM work_progresses WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete work progress", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete work progress: %w", err)
	}
	return nil
}

// CountCreatedSince counts reports created at or after the given instant
func (r *WorkProgressRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM work_progresses WHERE created_at >= ?`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count work progresses: %w", err)
	}
	return count, nil
}

// CountByStatus aggregates per-status counts, optionally scoped to a vendor
func (r *WorkProgressRepository) CountByStatus(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error) {
	return countByStatus(ctx, sqlite.ExecutorFrom(ctx, r.db), "work_progresses", vendorID)
}

// ReplaceItems deletes all existing work items of the report and inserts the
// new set. The replacement is wholesale: no diffing, no merge.
func (r *WorkProgressRepository) ReplaceItems(ctx context.Context, docID int64, items []*entity.WorkItem) error {
	exec := sqlite.ExecutorFrom(ctx, r.db)

	if _, err := exec.ExecContext(ctx,
		`DELETE FROM work_items WHERE work_progress_id = ?`, docID); err != nil {
		r.logger.Error("Failed to delete work items", zap.Int64("doc_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete work items: %w", err)
	}

	query := `
		INSERT INTO work_items (
			work_progress_id, work_item_name, description, planned_progress,
			actual_progress, unit, quality, deliverables, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range items {
		result, err := exec.ExecContext(ctx, query,
			docID, item.WorkItemName, item.Description, item.PlannedProgress,
			item.ActualProgress, item.Unit, item.Quality, item.Deliverables, item.Notes)
		if err != nil {
			r.logger.Error("Failed to insert work item", zap.Int64("doc_id", docID), zap.Error(err))
			return fmt.Errorf("failed to insert work item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.ID = id
		item.WorkProgressID = docID
	}
	return nil
}

// GetItems retrieves the report's work items in insertion order
func (r *WorkProgressRepository) GetItems(ctx context.Context, docID int64) ([]*entity.WorkItem, error) {
	query := `
		SELECT id, work_progress_id, work_item_name, description, planned_progress,
			actual_progress, unit, quality, deliverables, notes
		FROM work_items
		WHERE work_progress_id = ?
		ORDER BY id
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, docID)
	if err != nil {
		r.logger.Error("Failed to get work items", zap.Int64("doc_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to get work items: %w", err)
	}
	defer rows.Close()

	var items []*entity.WorkItem
	for rows.Next() {
		var item entity.WorkItem
		if err := rows.Scan(
			&item.ID, &item.WorkProgressID, &item.WorkItemName, &item.Description,
			&item.PlannedProgress, &item.ActualProgress, &item.Unit, &item.Quality,
			&item.Deliverables, &item.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan work item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func scanWorkProgress(row rowScanner) (*entity.WorkProgress, error) {
	var doc entity.WorkProgress
	var directorID sql.NullInt64
	var completionDate sql.NullTime

	err := row.Scan(
		&doc.ID, &doc.Number, &doc.VendorID, &directorID, &doc.ContractNumber,
		&doc.ContractAmount, &doc.ProjectName, &doc.ProjectLocation,
		&doc.StartDate, &doc.EndDate, &completionDate, &doc.Status,
		&doc.TotalProgress, &doc.Notes, &doc.RejectionReason,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if directorID.Valid {
		doc.ProjectDirectorID = &directorID.Int64
	}
	if completionDate.Valid {
		doc.CompletionDate = &completionDate.Time
	}
	return &doc, nil
}

// Verify interface compliance
var _ port.WorkProgressRepository = (*WorkProgressRepository)(nil)
