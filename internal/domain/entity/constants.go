package entity

// Document status constants, persisted and surfaced to clients verbatim
const (
	StatusDraft            = "draft"
	StatusSubmitted        = "submitted"
	StatusInReview         = "in_review"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusRevisionRequired = "revision_required"
)

// User role constants
const (
	RoleVendor    = "vendor"
	RolePICGudang = "pic_gudang"
	RoleApprover  = "approver"
	RoleAdmin     = "admin"
)

// Approval ledger action constants
const (
	ActionApproved         = "approved"
	ActionRejected         = "rejected"
	ActionRevisionRequired = "revision_required"
)

// Document kind constants, used in payment logs and notification references
const (
	KindGoodsReceipt = "BAPB"
	KindWorkProgress = "BAPP"
)

// Attachment file type constants
const (
	FileTypeSignature     = "signature"
	FileTypeSupportingDoc = "supporting_doc"
	FileTypePhoto         = "photo"
)

// Goods receipt item condition constants
const (
	ConditionGood    = "baik"
	ConditionDamaged = "rusak"
	ConditionShort   = "kurang"
)

// Work item quality constants
const (
	QualityExcellent  = "excellent"
	QualityGood       = "good"
	QualityAcceptable = "acceptable"
	QualityPoor       = "poor"
	QualityRejected   = "rejected"
)

// Payment status constants
const (
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Notification priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)
