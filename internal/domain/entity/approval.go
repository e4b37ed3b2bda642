package entity

import "time"

// ApprovalRecord is one row of a document's approval ledger: a single
// approve, reject or revision-request action by one user. Rows are
// append-only and are never updated after creation.
type ApprovalRecord struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	ApproverID int64     `json:"approver_id"`
	Action     string    `json:"action"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Approver *User `json:"approver,omitempty"`
}
