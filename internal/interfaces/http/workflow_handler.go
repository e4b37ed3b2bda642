package http

import (
	"github.com/gin-gonic/gin"

	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

type decisionRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// Submit handles POST /api/{bapb,bapp}/:id/submit
func (h *Handlers) Submit(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		if err := h.workflow.Submit(c.Request.Context(), kind, id, actorFrom(c)); err != nil {
			fail(c, h.logger, err)
			return
		}
		okMessage(c, "document submitted", nil)
	}
}

// StartReview handles POST /api/{bapb,bapp}/:id/start-review
func (h *Handlers) StartReview(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		if err := h.workflow.StartReview(c.Request.Context(), kind, id, actorFrom(c)); err != nil {
			fail(c, h.logger, err)
			return
		}
		okMessage(c, "review started", nil)
	}
}

// Approve handles POST /api/{bapb,bapp}/:id/approve
func (h *Handlers) Approve(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		var req decisionRequest
		_ = c.ShouldBindJSON(&req) // notes are optional

		if err := h.workflow.Approve(c.Request.Context(), kind, id, actorFrom(c), req.Notes); err != nil {
			fail(c, h.logger, err)
			return
		}
		okMessage(c, "document approved", nil)
	}
}

// Reject handles POST /api/{bapb,bapp}/:id/reject
func (h *Handlers) Reject(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		var req decisionRequest
		_ = c.ShouldBindJSON(&req)

		if err := h.workflow.Reject(c.Request.Context(), kind, id, actorFrom(c), req.Reason); err != nil {
			fail(c, h.logger, err)
			return
		}
		okMessage(c, "document rejected", nil)
	}
}

// RequestRevision handles POST /api/{bapb,bapp}/:id/request-revision
func (h *Handlers) RequestRevision(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		var req decisionRequest
		_ = c.ShouldBindJSON(&req)

		if err := h.workflow.RequestRevision(c.Request.Context(), kind, id, actorFrom(c), req.Reason); err != nil {
			fail(c, h.logger, err)
			return
		}
		okMessage(c, "revision requested", nil)
	}
}

// History handles GET /api/{bapb,bapp}/:id/history
func (h *Handlers) History(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		records, err := h.workflow.History(c.Request.Context(), kind, id)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		ok(c, records)
	}
}
