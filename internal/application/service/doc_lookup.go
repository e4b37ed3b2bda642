package service

import (
	"context"
	"fmt"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// docSnapshot is the kind-independent view of a document that workflow,
// attachment and rendering paths share: identity, ownership, the assigned
// reviewer slot and current status.
type docSnapshot struct {
	ID         int64
	Number     string
	VendorID   int64
	ReviewerID *int64
	Status     string
}

// loadDocSnapshot resolves a document of either kind into a snapshot,
// translating absence into a not-found error.
func loadDocSnapshot(ctx context.Context, receipts port.GoodsReceiptRepository, progress port.WorkProgressRepository, kind workflow.Kind, id int64) (*docSnapshot, error) {
	switch kind {
	case workflow.KindGoodsReceipt:
		doc, err := receipts.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, apperror.NewNotFound("goods receipt", id)
		}
		return &docSnapshot{
			ID:         doc.ID,
			Number:     doc.Number,
			VendorID:   doc.VendorID,
			ReviewerID: doc.WarehousePICID,
			Status:     doc.Status,
		}, nil
	case workflow.KindWorkProgress:
		doc, err := progress.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, apperror.NewNotFound("work progress", id)
		}
		return &docSnapshot{
			ID:         doc.ID,
			Number:     doc.Number,
			VendorID:   doc.VendorID,
			ReviewerID: doc.ProjectDirectorID,
			Status:     doc.Status,
		}, nil
	default:
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
}
