package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// AttachmentService stores and serves the binary artifacts attached to
// documents: captured signatures, supporting documents and photos.
type AttachmentService struct {
	receipts port.GoodsReceiptRepository
	progress port.WorkProgressRepository
	grAtts   port.AttachmentRepository
	wpAtts   port.AttachmentRepository
	store    port.FileStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttachmentService creates an AttachmentService
func NewAttachmentService(
	receipts port.GoodsReceiptRepository,
	progress port.WorkProgressRepository,
	grAtts port.AttachmentRepository,
	wpAtts port.AttachmentRepository,
	store port.FileStore,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		receipts: receipts,
		progress: progress,
		grAtts:   grAtts,
		wpAtts:   wpAtts,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AttachmentService) repo(kind workflow.Kind) port.AttachmentRepository {
	if kind == workflow.KindGoodsReceipt {
		return s.grAtts
	}
	return s.wpAtts
}

func kindDir(kind workflow.Kind) string {
	if kind == workflow.KindGoodsReceipt {
		return "goods_receipts"
	}
	return "work_progresses"
}

// canSign reports whether the actor may add a signature to the document:
// the owning vendor, the assigned reviewer, or any approver/admin.
func canSign(doc *docSnapshot, actor port.Actor) bool {
	if actor.ID == doc.VendorID {
		return true
	}
	if doc.ReviewerID != nil && actor.ID == *doc.ReviewerID {
		return true
	}
	return actor.Role == entity.RoleApprover || actor.Role == entity.RoleAdmin
}

// UploadSignature decodes a base64 data-URI image and stores it as a
// signature attachment. A second upload by the same user does not replace
// the first; readers pick the most recent per signer.
func (s *AttachmentService) UploadSignature(ctx context.Context, actor port.Actor, kind workflow.Kind, docID int64, signatureData string) (*entity.Attachment, error) {
	doc, err := loadDocSnapshot(ctx, s.receipts, s.progress, kind, docID)
	if err != nil {
		return nil, err
	}
	if !canSign(doc, actor) {
		return nil, apperror.NewForbidden("you are not authorized to sign this document")
	}

	content, ext, err := decodeSignatureData(signatureData)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("signature_%d_%d_%d%s", docID, actor.ID, s.now().Unix(), ext)
	relPath := filepath.Join("signatures", kindDir(kind), fileName)
	if _, err := s.store.Save(relPath, content); err != nil {
		return nil, fmt.Errorf("failed to store signature: %w", err)
	}

	att := &entity.Attachment{
		DocumentID: docID,
		FileType:   entity.FileTypeSignature,
		FilePath:   relPath,
		FileName:   fileName,
		UploadedBy: actor.ID,
	}
	if err := s.repo(kind).Create(ctx, att); err != nil {
		if delErr := s.store.Delete(relPath); delErr != nil {
			s.logger.Warn("Failed to remove orphaned signature file",
				zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Signature uploaded",
		zap.String("document", doc.Number), zap.Int64("uploaded_by", actor.ID))
	return att, nil
}

// decodeSignatureData parses a data:image/png|jpeg;base64 payload
func decodeSignatureData(data string) ([]byte, string, error) {
	var ext string
	switch {
	case strings.HasPrefix(data, "data:image/png;base64,"):
		ext = ".png"
		data = strings.TrimPrefix(data, "data:image/png;base64,")
	case strings.HasPrefix(data, "data:image/jpeg;base64,"):
		ext = ".jpg"
		data = strings.TrimPrefix(data, "data:image/jpeg;base64,")
	default:
		return nil, "", apperror.NewValidation(apperror.FieldError{
			Field: "signature_data", Message: "signature must be a base64 PNG or JPEG data URI",
		})
	}

	content, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", apperror.NewValidation(apperror.FieldError{
			Field: "signature_data", Message: "invalid base64 payload",
		})
	}
	if len(content) == 0 {
		return nil, "", apperror.NewValidation(apperror.FieldError{
			Field: "signature_data", Message: "signature payload is empty",
		})
	}
	return content, ext, nil
}

// Upload stores a supporting document or photo. PDF uploads are opened with
// the PDF engine first so corrupt files are rejected before anything is
// persisted.
func (s *AttachmentService) Upload(ctx context.Context, actor port.Actor, kind workflow.Kind, docID int64, fileName, fileType string, content []byte) (*entity.Attachment, error) {
	if fileType != entity.FileTypeSupportingDoc && fileType != entity.FileTypePhoto {
		return nil, apperror.NewValidation(apperror.FieldError{
			Field: "file_type", Message: "file type must be supporting_doc or photo",
		})
	}
	if len(content) == 0 {
		return nil, apperror.NewValidation(apperror.FieldError{
			Field: "file", Message: "file is empty",
		})
	}

	doc, err := loadDocSnapshot(ctx, s.receipts, s.progress, kind, docID)
	if err != nil {
		return nil, err
	}
	if actor.Role == entity.RoleVendor && doc.VendorID != actor.ID {
		return nil, apperror.NewForbidden("you can only attach files to your own documents")
	}

	if strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		if err := inspectPDF(content); err != nil {
			return nil, err
		}
	}

	stored := fmt.Sprintf("%d_%d_%s", docID, s.now().UnixNano(), filepath.Base(fileName))
	relPath := filepath.Join("attachments", kindDir(kind), stored)
	if _, err := s.store.Save(relPath, content); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	att := &entity.Attachment{
		DocumentID: docID,
		FileType:   fileType,
		FilePath:   relPath,
		FileName:   filepath.Base(fileName),
		UploadedBy: actor.ID,
	}
	if err := s.repo(kind).Create(ctx, att); err != nil {
		if delErr := s.store.Delete(relPath); delErr != nil {
			s.logger.Warn("Failed to remove orphaned attachment file",
				zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, err
	}
	return att, nil
}

// inspectPDF opens the uploaded bytes with the PDF engine and rejects
// documents that cannot be parsed or have no pages.
func inspectPDF(content []byte) error {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return apperror.NewValidation(apperror.FieldError{
			Field: "file", Message: "uploaded PDF cannot be read",
		})
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return apperror.NewValidation(apperror.FieldError{
			Field: "file", Message: "uploaded PDF has no pages",
		})
	}
	return nil
}

// List returns the document's attachments, optionally filtered by file type
func (s *AttachmentService) List(ctx context.Context, actor port.Actor, kind workflow.Kind, docID int64, fileType string) ([]*entity.Attachment, error) {
	doc, err := loadDocSnapshot(ctx, s.receipts, s.progress, kind, docID)
	if err != nil {
		return nil, err
	}
	if actor.Role == entity.RoleVendor && doc.VendorID != actor.ID {
		return nil, apperror.NewForbidden("you can only view your own documents")
	}
	return s.repo(kind).ListByDocument(ctx, docID, fileType)
}

// Delete removes an attachment record and its file. Only the uploader or an
// admin may delete; a missing file on disk is logged, not fatal.
func (s *AttachmentService) Delete(ctx context.Context, actor port.Actor, kind workflow.Kind, attID int64) error {
	att, err := s.repo(kind).GetByID(ctx, attID)
	if err != nil {
		return err
	}
	if att == nil {
		return apperror.NewNotFound("attachment", attID)
	}
	if att.UploadedBy != actor.ID && actor.Role != entity.RoleAdmin {
		return apperror.NewForbidden("you can only delete your own attachments")
	}

	if err := s.repo(kind).Delete(ctx, attID); err != nil {
		return err
	}
	if err := s.store.Delete(att.FilePath); err != nil {
		s.logger.Warn("Failed to remove attachment file",
			zap.String("path", att.FilePath), zap.Error(err))
	}
	return nil
}

// FilePath resolves an attachment to its absolute on-disk path for download
func (s *AttachmentService) FilePath(ctx context.Context, actor port.Actor, kind workflow.Kind, attID int64) (string, string, error) {
	att, err := s.repo(kind).GetByID(ctx, attID)
	if err != nil {
		return "", "", err
	}
	if att == nil {
		return "", "", apperror.NewNotFound("attachment", attID)
	}
	if !s.store.Exists(att.FilePath) {
		return "", "", apperror.NewNotFound("attachment file", attID)
	}
	return s.store.FullPath(att.FilePath), att.FileName, nil
}
