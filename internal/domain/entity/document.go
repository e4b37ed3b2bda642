package entity

import "time"

// GoodsReceipt is a berita acara pemeriksaan barang (BAPB): a record of
// physical receipt and inspection of delivered items against an order.
type GoodsReceipt struct {
	ID              int64     `json:"id"`
	Number          string    `json:"number"`
	VendorID        int64     `json:"vendor_id"`
	WarehousePICID  *int64    `json:"warehouse_pic_id,omitempty"`
	OrderNumber     string    `json:"order_number"`
	DeliveryDate    time.Time `json:"delivery_date"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Vendor       *User              `json:"vendor,omitempty"`
	WarehousePIC *User              `json:"warehouse_pic,omitempty"`
	Items        []*GoodsReceiptItem `json:"items,omitempty"`
}

// GoodsReceiptItem is one inspected line of a goods receipt. Items have no
// lifecycle outside their document: editing a document replaces all of them.
type GoodsReceiptItem struct {
	ID               int64  `json:"id"`
	GoodsReceiptID   int64  `json:"goods_receipt_id"`
	ItemName         string `json:"item_name"`
	QuantityOrdered  int    `json:"quantity_ordered"`
	QuantityReceived int    `json:"quantity_received"`
	Unit             string `json:"unit"`
	Condition        string `json:"condition"`
	Notes            string `json:"notes,omitempty"`
}

// WorkProgress is a berita acara pemeriksaan pekerjaan (BAPP): a record of
// percentage-complete inspection of contracted project work.
type WorkProgress struct {
	ID                int64      `json:"id"`
	Number            string     `json:"number"`
	VendorID          int64      `json:"vendor_id"`
	ProjectDirectorID *int64     `json:"project_director_id,omitempty"`
	ContractNumber    string     `json:"contract_number"`
	ContractAmount    float64    `json:"contract_amount"`
	ProjectName       string     `json:"project_name"`
	ProjectLocation   string     `json:"project_location"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	CompletionDate    *time.Time `json:"completion_date,omitempty"`
	Status            string     `json:"status"`
	TotalProgress     float64    `json:"total_progress"`
	Notes             string     `json:"notes,omitempty"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Vendor          *User       `json:"vendor,omitempty"`
	ProjectDirector *User       `json:"project_director,omitempty"`
	WorkItems       []*WorkItem `json:"work_items,omitempty"`
}

// WorkItem is one inspected work line of a work progress report.
type WorkItem struct {
	ID              int64   `json:"id"`
	WorkProgressID  int64   `json:"work_progress_id"`
	WorkItemName    string  `json:"work_item_name"`
	Description     string  `json:"description,omitempty"`
	PlannedProgress float64 `json:"planned_progress"`
	ActualProgress  float64 `json:"actual_progress"`
	Unit            string  `json:"unit"`
	Quality         string  `json:"quality"`
	Deliverables    string  `json:"deliverables,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// DocumentStatistics aggregates per-status document counts for dashboards
type DocumentStatistics struct {
	Total            int64 `json:"total"`
	Draft            int64 `json:"draft"`
	Submitted        int64 `json:"submitted"`
	InReview         int64 `json:"in_review"`
	Approved         int64 `json:"approved"`
	Rejected         int64 `json:"rejected"`
	RevisionRequired int64 `json:"revision_required"`
}
