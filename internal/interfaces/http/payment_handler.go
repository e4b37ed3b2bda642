package http

import (
	"github.com/gin-gonic/gin"

	"github.com/badigital/ba-workflow/internal/application/service"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// PaymentReadiness handles GET /api/{bapb,bapp}/:id/payment/readiness
func (h *Handlers) PaymentReadiness(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		readiness, err := h.payments.Readiness(c.Request.Context(), kind, id)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		ok(c, readiness)
	}
}

// ProcessPayment handles POST /api/{bapb,bapp}/:id/payment
func (h *Handlers) ProcessPayment(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		var req service.ProcessPaymentInput
		_ = c.ShouldBindJSON(&req) // every field has a default

		entry, err := h.payments.Process(c.Request.Context(), actorFrom(c), kind, id, req)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		created(c, entry)
	}
}

// PaymentLogs handles GET /api/{bapb,bapp}/:id/payment/logs
func (h *Handlers) PaymentLogs(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c)
		if !valid {
			return
		}
		logs, err := h.payments.Logs(c.Request.Context(), kind, id)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		ok(c, logs)
	}
}

// PaymentStatistics handles GET /api/payments/statistics
func (h *Handlers) PaymentStatistics(c *gin.Context) {
	stats, err := h.payments.Statistics(c.Request.Context(), actorFrom(c), c.Query("kind"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, stats)
}
