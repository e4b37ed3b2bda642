package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/application/service"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	auth       *service.AuthService
	logger     *zap.Logger
}

// NewServer creates the HTTP server and wires all routes
func NewServer(config ServerConfig, handlers *Handlers, auth *service.AuthService, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: handlers,
		auth:     auth,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))
	s.router.Use(corsMiddleware())
}

func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/profile", authMiddleware(s.auth), h.Profile)
	}

	authed := api.Group("", authMiddleware(s.auth))

	bapb := authed.Group("/bapb")
	{
		bapb.POST("", h.CreateGoodsReceipt)
		bapb.GET("", h.ListGoodsReceipts)
		bapb.GET("/statistics", h.GoodsReceiptStatistics)
		bapb.GET("/:id", h.GetGoodsReceipt)
		bapb.PUT("/:id", h.UpdateGoodsReceipt)
		bapb.DELETE("/:id", h.DeleteGoodsReceipt)
	}
	s.documentRoutes(bapb, workflow.KindGoodsReceipt)

	bapp := authed.Group("/bapp")
	{
		bapp.POST("", h.CreateWorkProgress)
		bapp.GET("", h.ListWorkProgresses)
		bapp.GET("/statistics", h.WorkProgressStatistics)
		bapp.GET("/:id", h.GetWorkProgress)
		bapp.PUT("/:id", h.UpdateWorkProgress)
		bapp.DELETE("/:id", h.DeleteWorkProgress)
	}
	s.documentRoutes(bapp, workflow.KindWorkProgress)

	payments := authed.Group("/payments")
	{
		payments.GET("/statistics", h.PaymentStatistics)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.PUT("/:id/read", h.MarkNotificationRead)
		notifications.PUT("/read-all", h.MarkAllNotificationsRead)
	}

	reports := authed.Group("/reports",
		requireRoles(entity.RolePICGudang, entity.RoleApprover, entity.RoleAdmin))
	{
		reports.GET("/recap", h.ExportRecap)
	}
}

// documentRoutes registers the kind-parameterized workflow, attachment and
// payment routes shared by both document variants.
func (s *Server) documentRoutes(group *gin.RouterGroup, kind workflow.Kind) {
	h := s.handlers

	group.POST("/:id/submit", h.Submit(kind))
	group.POST("/:id/start-review", h.StartReview(kind))
	group.POST("/:id/approve", h.Approve(kind))
	group.POST("/:id/reject", h.Reject(kind))
	group.POST("/:id/request-revision", h.RequestRevision(kind))
	group.GET("/:id/history", h.History(kind))

	group.POST("/:id/signatures", h.UploadSignature(kind))
	group.POST("/:id/attachments", h.UploadAttachment(kind))
	group.GET("/:id/attachments", h.ListAttachments(kind))
	group.GET("/attachments/:id/download", h.DownloadAttachment(kind))
	group.DELETE("/attachments/:id", h.DeleteAttachment(kind))

	group.GET("/:id/pdf", h.RenderPDF(kind))

	group.GET("/:id/payment/readiness", h.PaymentReadiness(kind))
	group.POST("/:id/payment", h.ProcessPayment(kind))
	group.GET("/:id/payment/logs", h.PaymentLogs(kind))
}

// Start serves requests until the context is canceled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
