package service

import (
	"context"
	"fmt"
	"time"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/report"
)

// recapPageSize bounds how many rows of each concern a recap workbook holds
const recapPageSize = 1000

// ReportService gathers documents and payment logs for recap export
type ReportService struct {
	receipts port.GoodsReceiptRepository
	progress port.WorkProgressRepository
	payments port.PaymentLogRepository
	exporter *report.Exporter
	now      func() time.Time
}

// NewReportService creates a ReportService
func NewReportService(
	receipts port.GoodsReceiptRepository,
	progress port.WorkProgressRepository,
	payments port.PaymentLogRepository,
	exporter *report.Exporter,
) *ReportService {
	return &ReportService{
		receipts: receipts,
		progress: progress,
		payments: payments,
		exporter: exporter,
		now:      time.Now,
	}
}

// Recap builds the xlsx recap workbook. Reviewer roles only: the workbook
// spans every vendor's documents.
func (s *ReportService) Recap(ctx context.Context, actor port.Actor) ([]byte, string, error) {
	if actor.Role == entity.RoleVendor {
		return nil, "", apperror.NewForbidden("vendors cannot export the recap report")
	}

	receipts, _, err := s.receipts.List(ctx, port.GoodsReceiptFilter{Limit: recapPageSize})
	if err != nil {
		return nil, "", err
	}
	progresses, _, err := s.progress.List(ctx, port.WorkProgressFilter{Limit: recapPageSize})
	if err != nil {
		return nil, "", err
	}
	payments, err := s.payments.ListRecent(ctx, recapPageSize)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	data, err := s.exporter.Recap(report.RecapData{
		GeneratedAt:    now,
		GoodsReceipts:  receipts,
		WorkProgresses: progresses,
		Payments:       payments,
	})
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("rekap_berita_acara_%s.xlsx", now.Format("20060102_150405"))
	return data, fileName, nil
}
