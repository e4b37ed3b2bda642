package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// GoodsReceiptService implements the goods receipt document use cases
type GoodsReceiptService struct {
	tx       port.TransactionManager
	receipts port.GoodsReceiptRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewGoodsReceiptService creates a GoodsReceiptService
func NewGoodsReceiptService(tx port.TransactionManager, receipts port.GoodsReceiptRepository, logger *zap.Logger) *GoodsReceiptService {
	return &GoodsReceiptService{tx: tx, receipts: receipts, logger: logger, now: time.Now}
}

// GoodsReceiptItemInput is one item line of a create or update request
type GoodsReceiptItemInput struct {
	ItemName         string `json:"item_name" binding:"required"`
	QuantityOrdered  int    `json:"quantity_ordered" binding:"required"`
	QuantityReceived int    `json:"quantity_received"`
	Unit             string `json:"unit" binding:"required"`
	Condition        string `json:"condition" binding:"required"`
	Notes            string `json:"notes"`
}

// GoodsReceiptInput is the create/update request payload
type GoodsReceiptInput struct {
	OrderNumber  string                  `json:"order_number" binding:"required"`
	DeliveryDate time.Time               `json:"delivery_date" binding:"required"`
	Notes        string                  `json:"notes"`
	Items        []GoodsReceiptItemInput `json:"items"`
}

var validConditions = map[string]bool{
	entity.ConditionGood:    true,
	entity.ConditionDamaged: true,
	entity.ConditionShort:   true,
}

func validateGoodsReceiptInput(in GoodsReceiptInput) error {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.OrderNumber) == "" {
		fields = append(fields, apperror.FieldError{Field: "order_number", Message: "order number is required"})
	}
	if in.DeliveryDate.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "delivery_date", Message: "delivery date is required"})
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ItemName) == "" {
			fields = append(fields, apperror.FieldError{Field: itemField(i, "item_name"), Message: "item name is required"})
		}
		if item.QuantityOrdered <= 0 {
			fields = append(fields, apperror.FieldError{Field: itemField(i, "quantity_ordered"), Message: "quantity ordered must be positive"})
		}
		if item.QuantityReceived < 0 {
			fields = append(fields, apperror.FieldError{Field: itemField(i, "quantity_received"), Message: "quantity received cannot be negative"})
		}
		if strings.TrimSpace(item.Unit) == "" {
			fields = append(fields, apperror.FieldError{Field: itemField(i, "unit"), Message: "unit is required"})
		}
		if !validConditions[item.Condition] {
			fields = append(fields, apperror.FieldError{Field: itemField(i, "condition"), Message: "condition must be baik, rusak or kurang"})
		}
	}
	if len(fields) > 0 {
		return apperror.NewValidation(fields...)
	}
	return nil
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}

// Create stores a new goods receipt in draft with a freshly assigned number.
// Only vendors create documents; the document is owned by its creator.
func (s *GoodsReceiptService) Create(ctx context.Context, actor port.Actor, in GoodsReceiptInput) (*entity.GoodsReceipt, error) {
	if actor.Role != entity.RoleVendor {
		return nil, apperror.NewForbidden("only vendors can create documents")
	}
	if err := validateGoodsReceiptInput(in); err != nil {
		return nil, err
	}

	number, err := nextDocumentNumber(ctx, entity.KindGoodsReceipt, s.now(), s.receipts.CountCreatedSince)
	if err != nil {
		return nil, err
	}

	doc := &entity.GoodsReceipt{
		Number:       number,
		VendorID:     actor.ID,
		OrderNumber:  in.OrderNumber,
		DeliveryDate: in.DeliveryDate,
		Status:       entity.StatusDraft,
		Notes:        in.Notes,
		Items:        toGoodsReceiptItems(in.Items),
	}
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.receipts.Create(txCtx, doc); err != nil {
			return err
		}
		if len(doc.Items) == 0 {
			return nil
		}
		return s.receipts.ReplaceItems(txCtx, doc.ID, doc.Items)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Goods receipt created",
		zap.String("number", doc.Number), zap.Int64("vendor_id", actor.ID))
	return doc, nil
}

// Get returns one goods receipt with its items. Vendors only see their own
// documents; reviewer roles see all of them.
func (s *GoodsReceiptService) Get(ctx context.Context, actor port.Actor, id int64) (*entity.GoodsReceipt, error) {
	doc, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFound("goods receipt", id)
	}
	if actor.Role == entity.RoleVendor && doc.VendorID != actor.ID {
		return nil, apperror.NewForbidden("you can only view your own documents")
	}

	items, err := s.receipts.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Items = items
	return doc, nil
}

// List returns a page of goods receipts. The vendor filter is forced to the
// actor for vendor callers regardless of what they ask for.
func (s *GoodsReceiptService) List(ctx context.Context, actor port.Actor, filter port.GoodsReceiptFilter) ([]*entity.GoodsReceipt, int64, error) {
	if actor.Role == entity.RoleVendor {
		filter.VendorID = actor.ID
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.receipts.List(ctx, filter)
}

// Update replaces the document header and, when the payload carries an item
// set, wholesale-replaces the items; an omitted set leaves existing items
// untouched. Only the owning vendor may edit, and only in draft or
// revision_required.
func (s *GoodsReceiptService) Update(ctx context.Context, actor port.Actor, id int64, in GoodsReceiptInput) (*entity.GoodsReceipt, error) {
	doc, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFound("goods receipt", id)
	}
	if doc.VendorID != actor.ID {
		return nil, apperror.NewForbidden("you can only edit your own documents")
	}
	if doc.Status != entity.StatusDraft && doc.Status != entity.StatusRevisionRequired {
		return nil, apperror.NewStateConflict("update", doc.Status,
			entity.StatusDraft, entity.StatusRevisionRequired)
	}
	if err := validateGoodsReceiptInput(in); err != nil {
		return nil, err
	}

	doc.OrderNumber = in.OrderNumber
	doc.DeliveryDate = in.DeliveryDate
	doc.Notes = in.Notes

	var items []*entity.GoodsReceiptItem
	if in.Items != nil {
		items = toGoodsReceiptItems(in.Items)
	}
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.receipts.Update(txCtx, doc); err != nil {
			return err
		}
		if in.Items == nil {
			return nil
		}
		return s.receipts.ReplaceItems(txCtx, id, items)
	})
	if err != nil {
		return nil, err
	}

	if in.Items == nil {
		if items, err = s.receipts.GetItems(ctx, id); err != nil {
			return nil, err
		}
	}
	doc.Items = items
	return doc, nil
}

// Delete removes a goods receipt. Only the owning vendor, and only drafts.
func (s *GoodsReceiptService) Delete(ctx context.Context, actor port.Actor, id int64) error {
	doc, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.NewNotFound("goods receipt", id)
	}
	if doc.VendorID != actor.ID {
		return apperror.NewForbidden("you can only delete your own documents")
	}
	if doc.Status != entity.StatusDraft {
		return apperror.NewStateConflict("delete", doc.Status, entity.StatusDraft)
	}
	return s.receipts.Delete(ctx, id)
}

// Statistics returns per-status document counts, vendor-scoped for vendors
func (s *GoodsReceiptService) Statistics(ctx context.Context, actor port.Actor) (*entity.DocumentStatistics, error) {
	var vendorID int64
	if actor.Role == entity.RoleVendor {
		vendorID = actor.ID
	}
	return s.receipts.CountByStatus(ctx, vendorID)
}

func toGoodsReceiptItems(in []GoodsReceiptItemInput) []*entity.GoodsReceiptItem {
	items := make([]*entity.GoodsReceiptItem, 0, len(in))
	for _, it := range in {
		items = append(items, &entity.GoodsReceiptItem{
			ItemName:         it.ItemName,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			Unit:             it.Unit,
			Condition:        it.Condition,
			Notes:            it.Notes,
		})
	}
	return items
}
