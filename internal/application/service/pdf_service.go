package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
	"github.com/badigital/ba-workflow/internal/render"
)

// PDFService assembles fully-loaded documents and their resolved signature
// slots for the renderer. Rendering reads state, never changes it.
type PDFService struct {
	receipts port.GoodsReceiptRepository
	progress port.WorkProgressRepository
	grAtts   port.AttachmentRepository
	wpAtts   port.AttachmentRepository
	users    port.UserRepository
	store    port.FileStore
	renderer *render.PDFRenderer
	logger   *zap.Logger
}

// NewPDFService creates a PDFService
func NewPDFService(
	receipts port.GoodsReceiptRepository,
	progress port.WorkProgressRepository,
	grAtts port.AttachmentRepository,
	wpAtts port.AttachmentRepository,
	users port.UserRepository,
	store port.FileStore,
	renderer *render.PDFRenderer,
	logger *zap.Logger,
) *PDFService {
	return &PDFService{
		receipts: receipts,
		progress: progress,
		grAtts:   grAtts,
		wpAtts:   wpAtts,
		users:    users,
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// Render produces the printable PDF for a document of either kind. The file
// name follows the document number with slashes flattened.
func (s *PDFService) Render(ctx context.Context, actor port.Actor, kind workflow.Kind, id int64) ([]byte, string, error) {
	switch kind {
	case workflow.KindGoodsReceipt:
		return s.renderGoodsReceipt(ctx, actor, id)
	default:
		return s.renderWorkProgress(ctx, actor, id)
	}
}

func (s *PDFService) renderGoodsReceipt(ctx context.Context, actor port.Actor, id int64) ([]byte, string, error) {
	doc, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if doc == nil {
		return nil, "", apperror.NewNotFound("goods receipt", id)
	}
	if actor.Role == entity.RoleVendor && doc.VendorID != actor.ID {
		return nil, "", apperror.NewForbidden("you can only view your own documents")
	}

	doc.Items, err = s.receipts.GetItems(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc.Vendor, err = s.users.GetByID(ctx, doc.VendorID)
	if err != nil {
		return nil, "", err
	}
	if doc.WarehousePICID != nil {
		doc.WarehousePIC, err = s.users.GetByID(ctx, *doc.WarehousePICID)
		if err != nil {
			return nil, "", err
		}
	}

	slots, err := s.signatureSlots(ctx, s.grAtts, doc.ID,
		signerSlot{Title: "Pihak Vendor,", User: doc.Vendor, UserID: doc.VendorID},
		signerSlot{Title: "Pihak Gudang,", User: doc.WarehousePIC, UserID: derefID(doc.WarehousePICID)})
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderer.GoodsReceipt(doc, slots)
	if err != nil {
		return nil, "", err
	}
	return data, pdfFileName(doc.Number), nil
}

func (s *PDFService) renderWorkProgress(ctx context.Context, actor port.Actor, id int64) ([]byte, string, error) {
	doc, err := s.progress.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if doc == nil {
		return nil, "", apperror.NewNotFound("work progress", id)
	}
	if actor.Role == entity.RoleVendor && doc.VendorID != actor.ID {
		return nil, "", apperror.NewForbidden("you can only view your own documents")
	}

	doc.WorkItems, err = s.progress.GetItems(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc.Vendor, err = s.users.GetByID(ctx, doc.VendorID)
	if err != nil {
		return nil, "", err
	}
	if doc.ProjectDirectorID != nil {
		doc.ProjectDirector, err = s.users.GetByID(ctx, *doc.ProjectDirectorID)
		if err != nil {
			return nil, "", err
		}
	}

	slots, err := s.signatureSlots(ctx, s.wpAtts, doc.ID,
		signerSlot{Title: "Pihak Vendor,", User: doc.Vendor, UserID: doc.VendorID},
		signerSlot{Title: "Direktur Proyek,", User: doc.ProjectDirector, UserID: derefID(doc.ProjectDirectorID)})
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderer.WorkProgress(doc, slots)
	if err != nil {
		return nil, "", err
	}
	return data, pdfFileName(doc.Number), nil
}

type signerSlot struct {
	Title  string
	User   *entity.User
	UserID int64
}

// signatureSlots matches the document's signature attachments against each
// signer. Attachments come back newest first, so the first hit per signer is
// the most recent upload. Missing files degrade to an unsigned slot.
func (s *PDFService) signatureSlots(ctx context.Context, atts port.AttachmentRepository, docID int64, signers ...signerSlot) ([]render.SignatureSlot, error) {
	signatures, err := atts.ListByDocument(ctx, docID, entity.FileTypeSignature)
	if err != nil {
		return nil, err
	}

	slots := make([]render.SignatureSlot, 0, len(signers))
	for _, signer := range signers {
		slot := render.SignatureSlot{Title: signer.Title}
		if signer.User != nil {
			slot.Name = signer.User.Name
		}
		if signer.UserID != 0 {
			for _, att := range signatures {
				if att.UploadedBy != signer.UserID {
					continue
				}
				if !s.store.Exists(att.FilePath) {
					s.logger.Warn("Signature file missing on disk",
						zap.String("path", att.FilePath), zap.Int64("attachment_id", att.ID))
					break
				}
				slot.ImagePath = s.store.FullPath(att.FilePath)
				break
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

func pdfFileName(number string) string {
	return strings.ReplaceAll(number, "/", "_") + ".pdf"
}
