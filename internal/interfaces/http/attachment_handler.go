package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// 10 MB upload ceiling
const maxUploadSize = 10 << 20

type signatureRequest struct {
	SignatureData string `json:"signature_data" binding:"required"`
}

// UploadSignature handles POST /api/{bapb,bapp}/:id/signatures
func (h *Handlers) UploadSignature(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		var req signatureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "signature_data is required")
			return
		}

		att, err := h.attachments.UploadSignature(c.Request.Context(), actorFrom(c), kind, id, req.SignatureData)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		created(c, att)
	}
}

// UploadAttachment handles POST /api/{bapb,bapp}/:id/attachments (multipart)
func (h *Handlers) UploadAttachment(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "file is required")
			return
		}
		if fileHeader.Size > maxUploadSize {
			badRequest(c, "file exceeds the 10MB limit")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			badRequest(c, "cannot read uploaded file")
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			badRequest(c, "cannot read uploaded file")
			return
		}

		att, err := h.attachments.Upload(c.Request.Context(), actorFrom(c), kind, id,
			fileHeader.Filename, c.PostForm("file_type"), content)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		created(c, att)
	}
}

// ListAttachments handles GET /api/{bapb,bapp}/:id/attachments
func (h *Handlers) ListAttachments(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		atts, err := h.attachments.List(c.Request.Context(), actorFrom(c), kind, id, c.Query("file_type"))
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		ok(c, atts)
	}
}

// DownloadAttachment handles GET /api/{bapb,bapp}/attachments/:id/download
func (h *Handlers) DownloadAttachment(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		path, name, err := h.attachments.FilePath(c.Request.Context(), actorFrom(c), kind, id)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		c.FileAttachment(path, name)
	}
}

// DeleteAttachment handles DELETE /api/{bapb,bapp}/attachments/:id
func (h *Handlers) DeleteAttachment(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		if err := h.attachments.Delete(c.Request.Context(), actorFrom(c), kind, id); err != nil {
			fail(c, h.logger, err)
			return
		}
		okMessage(c, "attachment deleted", nil)
	}
}

// RenderPDF handles GET /api/{bapb,bapp}/:id/pdf
func (h *Handlers) RenderPDF(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		data, fileName, err := h.pdf.Render(c.Request.Context(), actorFrom(c), kind, id)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
		c.Data(http.StatusOK, "application/pdf", data)
	}
}
