// Package report exports recap workbooks for document and payment audits.
package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// RecapData is the material one recap workbook is built from
type RecapData struct {
	GeneratedAt    time.Time
	GoodsReceipts  []*entity.GoodsReceipt
	WorkProgresses []*entity.WorkProgress
	Payments       []*entity.PaymentLogEntry
}

// Exporter renders recap data as an xlsx workbook, one sheet per concern
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates an Exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Recap builds the workbook: a BAPB sheet, a BAPP sheet and a payment sheet
func (e *Exporter) Recap(data RecapData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.fillGoodsReceipts(f, data.GoodsReceipts); err != nil {
		return nil, err
	}
	if err := e.fillWorkProgresses(f, data.WorkProgresses); err != nil {
		return nil, err
	}
	if err := e.fillPayments(f, data.Payments); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by the first data sheet
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("BAPB"); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Recap workbook generated",
		zap.Int("goods_receipts", len(data.GoodsReceipts)),
		zap.Int("work_progresses", len(data.WorkProgresses)),
		zap.Int("payments", len(data.Payments)))
	return buf.Bytes(), nil
}

func (e *Exporter) fillGoodsReceipts(f *excelize.File, docs []*entity.GoodsReceipt) error {
	const sheet = "BAPB"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{"No", "Nomor Dokumen", "Nomor Pesanan", "Tanggal Pengiriman", "Status", "Alasan Penolakan"}
	e.writeHeader(f, sheet, headers)

	for i, doc := range docs {
		row := i + 2
		e.setCell(f, sheet, cell(0, row), i+1)
		e.setCell(f, sheet, cell(1, row), doc.Number)
		e.setCell(f, sheet, cell(2, row), doc.OrderNumber)
		e.setCell(f, sheet, cell(3, row), doc.DeliveryDate.Format("2006-01-02"))
		e.setCell(f, sheet, cell(4, row), doc.Status)
		e.setCell(f, sheet, cell(5, row), doc.RejectionReason)
	}
	return nil
}

func (e *Exporter) fillWorkProgresses(f *excelize.File, docs []*entity.WorkProgress) error {
	const sheet = "BAPP"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{"No", "Nomor Dokumen", "Nomor Kontrak", "Nama Proyek", "Kemajuan (%)", "Status", "Alasan Penolakan"}
	e.writeHeader(f, sheet, headers)

	for i, doc := range docs {
		row := i + 2
		e.setCell(f, sheet, cell(0, row), i+1)
		e.setCell(f, sheet, cell(1, row), doc.Number)
		e.setCell(f, sheet, cell(2, row), doc.ContractNumber)
		e.setCell(f, sheet, cell(3, row), doc.ProjectName)
		e.setCell(f, sheet, cell(4, row), doc.TotalProgress)
		e.setCell(f, sheet, cell(5, row), doc.Status)
		e.setCell(f, sheet, cell(6, row), doc.RejectionReason)
	}
	return nil
}

func (e *Exporter) fillPayments(f *excelize.File, entries []*entity.PaymentLogEntry) error {
	const sheet = "Pembayaran"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{"No", "Jenis", "Nomor Dokumen", "Jumlah (IDR)", "Metode", "Status", "ID Transaksi", "Diproses"}
	e.writeHeader(f, sheet, headers)

	for i, entry := range entries {
		row := i + 2
		e.setCell(f, sheet, cell(0, row), i+1)
		e.setCell(f, sheet, cell(1, row), entry.DocumentKind)
		e.setCell(f, sheet, cell(2, row), entry.DocumentNumber)
		e.setCell(f, sheet, cell(3, row), entry.Amount)
		e.setCell(f, sheet, cell(4, row), entry.PaymentMethod)
		e.setCell(f, sheet, cell(5, row), entry.Status)
		e.setCell(f, sheet, cell(6, row), entry.TransactionID)
		e.setCell(f, sheet, cell(7, row), entry.ProcessedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (e *Exporter) writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, header := range headers {
		e.setCell(f, sheet, cell(i, 1), header)
	}
}

func (e *Exporter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet), zap.String("cell", cell), zap.Error(err))
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
