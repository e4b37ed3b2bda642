// Package notification delivers in-app workflow notifications. Delivery is
// best-effort: failures are logged and swallowed, transitions never depend
// on it.
package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// Dispatcher writes in-app notifications for workflow events. Submissions fan
// out to every reviewer-eligible user; decisions target the owning vendor.
type Dispatcher struct {
	notifications port.NotificationRepository
	users         port.UserRepository
	logger        *zap.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(notifications port.NotificationRepository, users port.UserRepository, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notifications: notifications, users: users, logger: logger}
}

func kindLabel(kind workflow.Kind) string {
	if kind == workflow.KindGoodsReceipt {
		return entity.KindGoodsReceipt
	}
	return entity.KindWorkProgress
}

func notifType(kind workflow.Kind, suffix string) string {
	if kind == workflow.KindGoodsReceipt {
		return "bapb_" + suffix
	}
	return "bapp_" + suffix
}

func entityType(kind workflow.Kind) string {
	if kind == workflow.KindGoodsReceipt {
		return "goods_receipt"
	}
	return "work_progress"
}

func actionURL(kind workflow.Kind, docID int64) string {
	if kind == workflow.KindGoodsReceipt {
		return fmt.Sprintf("/bapb/%d", docID)
	}
	return fmt.Sprintf("/bapp/%d", docID)
}

// reviewerRolesFor mirrors the workflow eligibility table for fan-out targets
func reviewerRolesFor(kind workflow.Kind) []string {
	if kind == workflow.KindGoodsReceipt {
		return []string{entity.RolePICGudang, entity.RoleApprover, entity.RoleAdmin}
	}
	return []string{entity.RoleApprover, entity.RoleAdmin}
}

// DocumentSubmitted notifies every reviewer-eligible user of a new submission
func (d *Dispatcher) DocumentSubmitted(ctx context.Context, kind workflow.Kind, docID int64, number string, vendor *entity.User) bool {
	reviewers, err := d.users.ListByRoles(ctx, reviewerRolesFor(kind))
	if err != nil {
		d.logger.Warn("Failed to resolve reviewers for submission notification",
			zap.String("number", number), zap.Error(err))
		return false
	}
	if len(reviewers) == 0 {
		return true
	}

	label := kindLabel(kind)
	batch := make([]*entity.Notification, 0, len(reviewers))
	for _, reviewer := range reviewers {
		batch = append(batch, &entity.Notification{
			UserID:            reviewer.ID,
			Type:              notifType(kind, "submitted"),
			Title:             fmt.Sprintf("%s Baru Diajukan", label),
			Message:           fmt.Sprintf("%s %s diajukan oleh %s dan menunggu review", label, number, vendor.Name),
			RelatedEntityType: entityType(kind),
			RelatedEntityID:   docID,
			Priority:          entity.PriorityHigh,
			ActionURL:         actionURL(kind, docID),
		})
	}

	if err := d.notifications.CreateBulk(ctx, batch); err != nil {
		d.logger.Warn("Failed to deliver submission notifications",
			zap.String("number", number), zap.Error(err))
		return false
	}
	return true
}

// DocumentApproved notifies the owning vendor of an approval
func (d *Dispatcher) DocumentApproved(ctx context.Context, kind workflow.Kind, docID int64, number string, approver *entity.User, vendorID int64) bool {
	label := kindLabel(kind)
	return d.deliver(ctx, &entity.Notification{
		UserID:            vendorID,
		Type:              notifType(kind, "approved"),
		Title:             fmt.Sprintf("%s Disetujui", label),
		Message:           fmt.Sprintf("%s %s telah disetujui oleh %s", label, number, approver.Name),
		RelatedEntityType: entityType(kind),
		RelatedEntityID:   docID,
		Priority:          entity.PriorityHigh,
		ActionURL:         actionURL(kind, docID),
	})
}

// DocumentRejected notifies the owning vendor of a rejection with its reason
func (d *Dispatcher) DocumentRejected(ctx context.Context, kind workflow.Kind, docID int64, number string, rejector *entity.User, vendorID int64, reason string) bool {
	label := kindLabel(kind)
	return d.deliver(ctx, &entity.Notification{
		UserID:            vendorID,
		Type:              notifType(kind, "rejected"),
		Title:             fmt.Sprintf("%s Ditolak", label),
		Message:           fmt.Sprintf("%s %s ditolak oleh %s. Alasan: %s", label, number, rejector.Name, reason),
		RelatedEntityType: entityType(kind),
		RelatedEntityID:   docID,
		Priority:          entity.PriorityUrgent,
		ActionURL:         actionURL(kind, docID),
	})
}

// DocumentRevisionRequired notifies the owning vendor that rework is needed
func (d *Dispatcher) DocumentRevisionRequired(ctx context.Context, kind workflow.Kind, docID int64, number string, reviewer *entity.User, vendorID int64, reason string) bool {
	label := kindLabel(kind)
	return d.deliver(ctx, &entity.Notification{
		UserID:            vendorID,
		Type:              notifType(kind, "revision_required"),
		Title:             fmt.Sprintf("%s Perlu Revisi", label),
		Message:           fmt.Sprintf("%s %s memerlukan revisi dari %s. Catatan: %s", label, number, reviewer.Name, reason),
		RelatedEntityType: entityType(kind),
		RelatedEntityID:   docID,
		Priority:          entity.PriorityHigh,
		ActionURL:         actionURL(kind, docID),
	})
}

func (d *Dispatcher) deliver(ctx context.Context, n *entity.Notification) bool {
	if err := d.notifications.Create(ctx, n); err != nil {
		d.logger.Warn("Failed to deliver notification",
			zap.String("type", n.Type), zap.Int64("user_id", n.UserID), zap.Error(err))
		return false
	}
	return true
}

var _ port.Notifier = (*Dispatcher)(nil)
