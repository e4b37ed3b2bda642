package entity

import "time"

// Attachment is binary-artifact metadata keyed to one document: a captured
// signature, a supporting document or a photo. The bytes live on disk under
// the storage root; only the path is persisted.
type Attachment struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	FileType   string    `json:"file_type"`
	FilePath   string    `json:"file_path"`
	FileName   string    `json:"file_name"`
	UploadedBy int64     `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsSignature returns true if this attachment is a captured signature
func (a *Attachment) IsSignature() bool {
	return a.FileType == FileTypeSignature
}
