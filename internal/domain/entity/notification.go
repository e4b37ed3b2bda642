package entity

import "time"

// Notification event type constants
const (
	NotifyGoodsReceiptSubmitted        = "bapb_submitted"
	NotifyGoodsReceiptApproved         = "bapb_approved"
	NotifyGoodsReceiptRejected         = "bapb_rejected"
	NotifyGoodsReceiptRevisionRequired = "bapb_revision_required"
	NotifyWorkProgressSubmitted        = "bapp_submitted"
	NotifyWorkProgressApproved         = "bapp_approved"
	NotifyWorkProgressRejected         = "bapp_rejected"
	NotifyWorkProgressRevisionRequired = "bapp_revision_required"
)

// Notification is one in-app message for one recipient.
type Notification struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	RelatedEntityType string     `json:"related_entity_type,omitempty"`
	RelatedEntityID   int64      `json:"related_entity_id,omitempty"`
	IsRead            bool       `json:"is_read"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	Priority          string     `json:"priority"`
	ActionURL         string     `json:"action_url,omitempty"`
	Metadata          string     `json:"metadata,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
