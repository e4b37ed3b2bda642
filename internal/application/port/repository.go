// Package port defines the interfaces between the application services and
// the infrastructure that backs them.
package port

import (
	"context"
	"time"

	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// TransactionManager executes a function within a database transaction.
// Repository calls made with the provided context join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// GoodsReceiptFilter narrows goods receipt listings
type GoodsReceiptFilter struct {
	Status   string
	VendorID int64
	Limit    int
	Offset   int
}

// GoodsReceiptRepository persists goods receipt documents and their items
type GoodsReceiptRepository interface {
	Create(ctx context.Context, doc *entity.GoodsReceipt) error
	GetByID(ctx context.Context, id int64) (*entity.GoodsReceipt, error)
	List(ctx context.Context, filter GoodsReceiptFilter) ([]*entity.GoodsReceipt, int64, error)
	Update(ctx context.Context, doc *entity.GoodsReceipt) error
	UpdateStatus(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error
	Delete(ctx context.Context, id int64) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountByStatus(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error)

	// ReplaceItems deletes every existing item of the document and inserts
	// the new set. Destructive by contract: item-level history is lost.
	ReplaceItems(ctx context.Context, docID int64, items []*entity.GoodsReceiptItem) error
	GetItems(ctx context.Context, docID int64) ([]*entity.GoodsReceiptItem, error)
}

// WorkProgressFilter narrows work progress listings
type WorkProgressFilter struct {
	Status   string
	VendorID int64
	Limit    int
	Offset   int
}

// WorkProgressRepository persists work progress documents and their items
type WorkProgressRepository interface {
	Create(ctx context.Context, doc *entity.WorkProgress) error
	GetByID(ctx context.Context, id int64) (*entity.WorkProgress, error)
	List(ctx context.Context, filter WorkProgressFilter) ([]*entity.WorkProgress, int64, error)
	Update(ctx context.Context, doc *entity.WorkProgress) error
	UpdateStatus(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error
	Delete(ctx context.Context, id int64) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountByStatus(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error)

	// ReplaceItems deletes every existing item of the document and inserts
	// the new set. Destructive by contract: item-level history is lost.
	ReplaceItems(ctx context.Context, docID int64, items []*entity.WorkItem) error
	GetItems(ctx context.Context, docID int64) ([]*entity.WorkItem, error)
}

// ApprovalRepository is the append-only approval ledger, one table per
// document kind. Records are created and read, never updated or deleted.
type ApprovalRepository interface {
	Create(ctx context.Context, record *entity.ApprovalRecord) error
	ListByDocument(ctx context.Context, docID int64) ([]*entity.ApprovalRecord, error)
	HasApprovedBy(ctx context.Context, docID, approverID int64) (bool, error)
}

// AttachmentRepository persists attachment metadata, one table per kind
type AttachmentRepository interface {
	Create(ctx context.Context, att *entity.Attachment) error
	GetByID(ctx context.Context, id int64) (*entity.Attachment, error)
	ListByDocument(ctx context.Context, docID int64, fileType string) ([]*entity.Attachment, error)
	Delete(ctx context.Context, id int64) error
}

// PaymentLogRepository persists simulated payment attempts
type PaymentLogRepository interface {
	Create(ctx context.Context, log *entity.PaymentLogEntry) error
	ListByDocument(ctx context.Context, kind string, docID int64) ([]*entity.PaymentLogEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.PaymentLogEntry, error)
	HasSuccessfulPayment(ctx context.Context, kind string, docID int64) (bool, error)
	Statistics(ctx context.Context, vendorID int64, kind string) (*entity.PaymentStatistics, error)
}

// NotificationRepository persists in-app notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	CreateBulk(ctx context.Context, ns []*entity.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// UserRepository persists user accounts
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByRoles(ctx context.Context, roles []string) ([]*entity.User, error)
}
