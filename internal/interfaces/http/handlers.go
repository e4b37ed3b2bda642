package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/application/service"
)

// Handlers holds every HTTP request handler and its service dependencies
type Handlers struct {
	auth          *service.AuthService
	receipts      *service.GoodsReceiptService
	progress      *service.WorkProgressService
	workflow      *service.WorkflowService
	attachments   *service.AttachmentService
	payments      *service.PaymentService
	notifications *service.NotificationService
	pdf           *service.PDFService
	reports       *service.ReportService
	logger        *zap.Logger
}

// NewHandlers creates a Handlers instance
func NewHandlers(
	auth *service.AuthService,
	receipts *service.GoodsReceiptService,
	progress *service.WorkProgressService,
	workflow *service.WorkflowService,
	attachments *service.AttachmentService,
	payments *service.PaymentService,
	notifications *service.NotificationService,
	pdf *service.PDFService,
	reports *service.ReportService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		auth:          auth,
		receipts:      receipts,
		progress:      progress,
		workflow:      workflow,
		attachments:   attachments,
		payments:      payments,
		notifications: notifications,
		pdf:           pdf,
		reports:       reports,
		logger:        logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	ok(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid id"})
		return 0, false
	}
	return id, true
}
