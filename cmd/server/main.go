package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/application/service"
	"github.com/badigital/ba-workflow/internal/config"
	"github.com/badigital/ba-workflow/internal/infrastructure/persistence/repository"
	"github.com/badigital/ba-workflow/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/badigital/ba-workflow/internal/interfaces/http"
	"github.com/badigital/ba-workflow/internal/notification"
	"github.com/badigital/ba-workflow/internal/payment"
	"github.com/badigital/ba-workflow/internal/render"
	"github.com/badigital/ba-workflow/internal/report"
	"github.com/badigital/ba-workflow/internal/storage"
	"github.com/badigital/ba-workflow/pkg/database"
	"github.com/badigital/ba-workflow/pkg/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting berita acara workflow service",
		zap.Int("port", cfg.Server.Port))

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create database directory", zap.Error(err))
		}
	}

	db, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Storage.BaseDir, 0755); err != nil {
		logger.Fatal("Failed to create storage directory", zap.Error(err))
	}

	// Repositories
	txDB := sqlite.NewDB(db, logger)
	receiptRepo := repository.NewGoodsReceiptRepository(db, logger)
	progressRepo := repository.NewWorkProgressRepository(db, logger)
	grApprovalRepo := repository.NewGoodsReceiptApprovalRepository(db, logger)
	wpApprovalRepo := repository.NewWorkProgressApprovalRepository(db, logger)
	grAttachmentRepo := repository.NewGoodsReceiptAttachmentRepository(db, logger)
	wpAttachmentRepo := repository.NewWorkProgressAttachmentRepository(db, logger)
	paymentLogRepo := repository.NewPaymentLogRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)

	// Collaborators
	fileStore := storage.NewLocalFileStore(cfg.Storage.BaseDir, logger)
	gateway := payment.NewSimulator(logger)
	dispatcher := notification.NewDispatcher(notificationRepo, userRepo, logger)
	pdfRenderer := render.NewPDFRenderer(logger)
	recapExporter := report.NewExporter(logger)

	// Application services
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	receiptService := service.NewGoodsReceiptService(txDB, receiptRepo, logger)
	progressService := service.NewWorkProgressService(txDB, progressRepo, logger)
	workflowService := service.NewWorkflowService(
		txDB, receiptRepo, progressRepo, grApprovalRepo, wpApprovalRepo,
		userRepo, dispatcher, logger)
	attachmentService := service.NewAttachmentService(
		receiptRepo, progressRepo, grAttachmentRepo, wpAttachmentRepo, fileStore, logger)
	paymentService := service.NewPaymentService(
		receiptRepo, progressRepo, paymentLogRepo, userRepo, gateway, logger)
	notificationService := service.NewNotificationService(notificationRepo)
	pdfService := service.NewPDFService(
		receiptRepo, progressRepo, grAttachmentRepo, wpAttachmentRepo,
		userRepo, fileStore, pdfRenderer, logger)
	reportService := service.NewReportService(
		receiptRepo, progressRepo, paymentLogRepo, recapExporter)

	handlers := httpiface.NewHandlers(
		authService, receiptService, progressService, workflowService,
		attachmentService, paymentService, notificationService,
		pdfService, reportService, logger)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, authService, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server exited")
}
