package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// WorkProgressService implements the work progress document use cases
type WorkProgressService struct {
	tx       port.TransactionManager
	progress port.WorkProgressRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewWorkProgressService creates a WorkProgressService
func NewWorkProgressService(tx port.TransactionManager, progress port.WorkProgressRepository, logger *zap.Logger) *WorkProgressService {
	return &WorkProgressService{tx: tx, progress: progress, logger: logger, now: time.Now}
}

// WorkItemInput is one work line of a create or update request
type WorkItemInput struct {
	WorkItemName    string  `json:"work_item_name" binding:"required"`
	Description     string  `json:"description"`
	PlannedProgress float64 `json:"planned_progress"`
	ActualProgress  float64 `json:"actual_progress"`
	Unit            string  `json:"unit" binding:"required"`
	Quality         string  `json:"quality" binding:"required"`
	Deliverables    string  `json:"deliverables"`
	Notes           string  `json:"notes"`
}

// WorkProgressInput is the create/update request payload
type WorkProgressInput struct {
	ContractNumber  string          `json:"contract_number" binding:"required"`
	ContractAmount  float64         `json:"contract_amount"`
	ProjectName     string          `json:"project_name" binding:"required"`
	ProjectLocation string          `json:"project_location" binding:"required"`
	StartDate       time.Time       `json:"start_date" binding:"required"`
	EndDate         time.Time       `json:"end_date" binding:"required"`
	CompletionDate  *time.Time      `json:"completion_date"`
	Notes           string          `json:"notes"`
	WorkItems       []WorkItemInput `json:"work_items"`
}

var validQualities = map[string]bool{
	entity.QualityExcellent:  true,
	entity.QualityGood:       true,
	entity.QualityAcceptable: true,
	entity.QualityPoor:       true,
	entity.QualityRejected:   true,
}

func validateWorkProgressInput(in WorkProgressInput) error {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.ContractNumber) == "" {
		fields = append(fields, apperror.FieldError{Field: "contract_number", Message: "contract number is required"})
	}
	if in.ContractAmount < 0 {
		fields = append(fields, apperror.FieldError{Field: "contract_amount", Message: "contract amount cannot be negative"})
	}
	if strings.TrimSpace(in.ProjectName) == "" {
		fields = append(fields, apperror.FieldError{Field: "project_name", Message: "project name is required"})
	}
	if strings.TrimSpace(in.ProjectLocation) == "" {
		fields = append(fields, apperror.FieldError{Field: "project_location", Message: "project location is required"})
	}
	if in.StartDate.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "start_date", Message: "start date is required"})
	}
	if in.EndDate.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "end_date", Message: "end date is required"})
	} else if !in.StartDate.IsZero() && in.EndDate.Before(in.StartDate) {
		fields = append(fields, apperror.FieldError{Field: "end_date", Message: "end date cannot be before start date"})
	}
	for i, item := range in.WorkItems {
		if strings.TrimSpace(item.WorkItemName) == "" {
			fields = append(fields, apperror.FieldError{Field: workItemField(i, "work_item_name"), Message: "work item name is required"})
		}
		if item.PlannedProgress < 0 || item.PlannedProgress > 100 {
			fields = append(fields, apperror.FieldError{Field: workItemField(i, "planned_progress"), Message: "planned progress must be between 0 and 100"})
		}
		if item.ActualProgress < 0 || item.ActualProgress > 100 {
			fields = append(fields, apperror.FieldError{Field: workItemField(i, "actual_progress"), Message: "actual progress must be between 0 and 100"})
		}
		if strings.TrimSpace(item.Unit) == "" {
			fields = append(fields, apperror.FieldError{Field: workItemField(i, "unit"), Message: "unit is required"})
		}
		if !validQualities[item.Quality] {
			fields = append(fields, apperror.FieldError{Field: workItemField(i, "quality"), Message: "quality must be excellent, good, acceptable, poor or rejected"})
		}
	}
	if len(fields) > 0 {
		return apperror.NewValidation(fields...)
	}
	return nil
}

func workItemField(i int, name string) string {
	return "work_items[" + strconv.Itoa(i) + "]." + name
}

// computeTotalProgress is the arithmetic mean of the items' actual progress,
// rounded to two decimals. No items means zero progress.
func computeTotalProgress(items []*entity.WorkItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.ActualProgress
	}
	return math.Round(sum/float64(len(items))*100) / 100
}

// Create stores a new work progress report in draft with a fresh number and
// a total progress derived from its work items.
func (s *WorkProgressService) Create(ctx context.Context, actor port.Actor, in WorkProgressInput) (*entity.WorkProgress, error) {
	if actor.Role != entity.RoleVendor {
		return nil, apperror.NewForbidden("only vendors can create documents")
	}
	if err := validateWorkProgressInput(in); err != nil {
		return nil, err
	}

	number, err := nextDocumentNumber(ctx, entity.KindWorkProgress, s.now(), s.progress.CountCreatedSince)
	if err != nil {
		return nil, err
	}

	items := toWorkItems(in.WorkItems)
	doc := &entity.WorkProgress{
		Number:          number,
		VendorID:        actor.ID,
		ContractNumber:  in.ContractNumber,
		ContractAmount:  in.ContractAmount,
		ProjectName:     in.ProjectName,
		ProjectLocation: in.ProjectLocation,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		CompletionDate:  in.CompletionDate,
		Status:          entity.StatusDraft,
		TotalProgress:   computeTotalProgress(items),
		Notes:           in.Notes,
		WorkItems:       items,
	}
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.progress.Create(txCtx, doc); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return s.progress.ReplaceItems(txCtx, doc.ID, items)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Work progress created",
		zap.String("number", doc.Number), zap.Int64("vendor_id", actor.ID))
	return doc, nil
}

// Get returns one work progress report with its items, vendor-scoped
func (s *WorkProgressService) Get(ctx context.Context, actor port.Actor, id int64) (*entity.WorkProgress, error) {
	doc, err := s.progress.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFound("work progress", id)
	}
	if actor.Role == entity.RoleVendor && doc.VendorID != actor.ID {
		return nil, apperror.NewForbidden("you can only view your own documents")
	}

	items, err := s.progress.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.WorkItems = items
	return doc, nil
}

// List returns a page of work progress reports, vendor-scoped for vendors
func (s *WorkProgressService) List(ctx context.Context, actor port.Actor, filter port.WorkProgressFilter) ([]*entity.WorkProgress, int64, error) {
	if actor.Role == entity.RoleVendor {
		filter.VendorID = actor.ID
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.progress.List(ctx, filter)
}

// Update replaces the report header. When the payload carries a work item
// set the items are wholesale-replaced and total progress is recomputed from
// the new set; an omitted set leaves both untouched.
func (s *WorkProgressService) Update(ctx context.Context, actor port.Actor, id int64, in WorkProgressInput) (*entity.WorkProgress, error) {
	doc, err := s.progress.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFound("work progress", id)
	}
	if doc.VendorID != actor.ID {
		return nil, apperror.NewForbidden("you can only edit your own documents")
	}
	if doc.Status != entity.StatusDraft && doc.Status != entity.StatusRevisionRequired {
		return nil, apperror.NewStateConflict("update", doc.Status,
			entity.StatusDraft, entity.StatusRevisionRequired)
	}
	if err := validateWorkProgressInput(in); err != nil {
		return nil, err
	}

	doc.ContractNumber = in.ContractNumber
	doc.ContractAmount = in.ContractAmount
	doc.ProjectName = in.ProjectName
	doc.ProjectLocation = in.ProjectLocation
	doc.StartDate = in.StartDate
	doc.EndDate = in.EndDate
	doc.CompletionDate = in.CompletionDate
	doc.Notes = in.Notes

	var items []*entity.WorkItem
	if in.WorkItems != nil {
		items = toWorkItems(in.WorkItems)
		doc.TotalProgress = computeTotalProgress(items)
	}
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.progress.Update(txCtx, doc); err != nil {
			return err
		}
		if in.WorkItems == nil {
			return nil
		}
		return s.progress.ReplaceItems(txCtx, id, items)
	})
	if err != nil {
		return nil, err
	}

	if in.WorkItems == nil {
		if items, err = s.progress.GetItems(ctx, id); err != nil {
			return nil, err
		}
	}
	doc.WorkItems = items
	return doc, nil
}

// Delete removes a work progress report. Only the owning vendor, drafts only.
func (s *WorkProgressService) Delete(ctx context.Context, actor port.Actor, id int64) error {
	doc, err := s.progress.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.NewNotFound("work progress", id)
	}
	if doc.VendorID != actor.ID {
		return apperror.NewForbidden("you can only delete your own documents")
	}
	if doc.Status != entity.StatusDraft {
		return apperror.NewStateConflict("delete", doc.Status, entity.StatusDraft)
	}
	return s.progress.Delete(ctx, id)
}

// Statistics returns per-status document counts, vendor-scoped for vendors
func (s *WorkProgressService) Statistics(ctx context.Context, actor port.Actor) (*entity.DocumentStatistics, error) {
	var vendorID int64
	if actor.Role == entity.RoleVendor {
		vendorID = actor.ID
	}
	return s.progress.CountByStatus(ctx, vendorID)
}

func toWorkItems(in []WorkItemInput) []*entity.WorkItem {
	items := make([]*entity.WorkItem, 0, len(in))
	for _, it := range in {
		items = append(items, &entity.WorkItem{
			WorkItemName:    it.WorkItemName,
			Description:     it.Description,
			PlannedProgress: it.PlannedProgress,
			ActualProgress:  it.ActualProgress,
			Unit:            it.Unit,
			Quality:         it.Quality,
			Deliverables:    it.Deliverables,
			Notes:           it.Notes,
		})
	}
	return items
}
