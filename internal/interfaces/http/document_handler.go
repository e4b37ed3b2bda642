package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/application/service"
)

type listQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func listMeta(total int64, q listQuery) gin.H {
	return gin.H{"total": total, "limit": q.Limit, "offset": q.Offset}
}

// CreateGoodsReceipt handles POST /api/bapb
func (h *Handlers) CreateGoodsReceipt(c *gin.Context) {
	var req service.GoodsReceiptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	doc, err := h.receipts.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	created(c, doc)
}

// ListGoodsReceipts handles GET /api/bapb
func (h *Handlers) ListGoodsReceipts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	vendorID, _ := strconv.ParseInt(c.Query("vendor_id"), 10, 64)

	docs, total, err := h.receipts.List(c.Request.Context(), actorFrom(c), port.GoodsReceiptFilter{
		Status:   q.Status,
		VendorID: vendorID,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, gin.H{"items": docs, "meta": listMeta(total, q)})
}

// GetGoodsReceipt handles GET /api/bapb/:id
func (h *Handlers) GetGoodsReceipt(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}

	doc, err := h.receipts.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, doc)
}

// UpdateGoodsReceipt handles PUT /api/bapb/:id
func (h *Handlers) UpdateGoodsReceipt(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req service.GoodsReceiptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	doc, err := h.receipts.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, doc)
}

// DeleteGoodsReceipt handles DELETE /api/bapb/:id
func (h *Handlers) DeleteGoodsReceipt(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.receipts.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	okMessage(c, "document deleted", nil)
}

// GoodsReceiptStatistics handles GET /api/bapb/statistics
func (h *Handlers) GoodsReceiptStatistics(c *gin.Context) {
	stats, err := h.receipts.Statistics(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, stats)
}

// CreateWorkProgress handles POST /api/bapp
func (h *Handlers) CreateWorkProgress(c *gin.Context) {
	var req service.WorkProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	doc, err := h.progress.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	created(c, doc)
}

// ListWorkProgresses handles GET /api/bapp
func (h *Handlers) ListWorkProgresses(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	vendorID, _ := strconv.ParseInt(c.Query("vendor_id"), 10, 64)

	docs, total, err := h.progress.List(c.Request.Context(), actorFrom(c), port.WorkProgressFilter{
		Status:   q.Status,
		VendorID: vendorID,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, gin.H{"items": docs, "meta": listMeta(total, q)})
}

// GetWorkProgress handles GET /api/bapp/:id
func (h *Handlers) GetWorkProgress(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}

	doc, err := h.progress.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, doc)
}

// UpdateWorkProgress handles PUT /api/bapp/:id
func (h *Handlers) UpdateWorkProgress(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req service.WorkProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	doc, err := h.progress.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, doc)
}

// DeleteWorkProgress handles DELETE /api/bapp/:id
func (h *Handlers) DeleteWorkProgress(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.progress.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	okMessage(c, "document deleted", nil)
}

// WorkProgressStatistics handles GET /api/bapp/statistics
func (h *Handlers) WorkProgressStatistics(c *gin.Context) {
	stats, err := h.progress.Statistics(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, stats)
}
