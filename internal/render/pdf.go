// Package render produces the printable PDF artifact for a document. It is a
// read-side projection: rendering never mutates workflow state.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// SignatureSlot is one signature block on the rendered document. ImagePath
// is the on-disk signature file, empty when the slot is unsigned.
type SignatureSlot struct {
	Title     string
	Name      string
	ImagePath string
}

// PDFRenderer lays out goods receipt and work progress documents as A4 PDFs
type PDFRenderer struct {
	logger *zap.Logger
}

// NewPDFRenderer creates a PDFRenderer
func NewPDFRenderer(logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{logger: logger}
}

const (
	headerGoodsReceipt = "BERITA ACARA PEMERIKSAAN BARANG"
	headerWorkProgress = "BERITA ACARA PEMERIKSAAN PEKERJAAN"

	unsignedPlaceholder = "(Belum ditandatangani)"
)

func newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	return pdf
}

func (r *PDFRenderer) header(pdf *fpdf.Fpdf, title, number string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Nomor: %s", number), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	x := pdf.GetX()
	y := pdf.GetY()
	pdf.Line(x, y, 210-15, y)
	pdf.Ln(4)
}

func (r *PDFRenderer) infoRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(5, 6, ":", "", 0, "L", false, 0, "")
	pdf.MultiCell(0, 6, value, "", "L", false)
}

// GoodsReceipt renders a BAPB with its inspection item table and signatures
func (r *PDFRenderer) GoodsReceipt(doc *entity.GoodsReceipt, slots []SignatureSlot) ([]byte, error) {
	pdf := newDoc()
	r.header(pdf, headerGoodsReceipt, doc.Number)

	vendorName := ""
	if doc.Vendor != nil {
		vendorName = doc.Vendor.Name
	}
	r.infoRow(pdf, "Vendor", vendorName)
	r.infoRow(pdf, "Nomor Pesanan", doc.OrderNumber)
	r.infoRow(pdf, "Tanggal Pengiriman", doc.DeliveryDate.Format("02-01-2006"))
	r.infoRow(pdf, "Status", doc.Status)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(10, 7, "No", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Nama Barang", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Dipesan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Diterima", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Satuan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Kondisi", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range doc.Items {
		pdf.CellFormat(10, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 7, item.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.QuantityOrdered), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.QuantityReceived), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, item.Condition, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	if doc.Notes != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Catatan:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, doc.Notes, "", "L", false)
		pdf.Ln(4)
	}

	r.signatures(pdf, slots, doc.CreatedAt)
	return output(pdf)
}

// WorkProgress renders a BAPP with its work item table and signatures
func (r *PDFRenderer) WorkProgress(doc *entity.WorkProgress, slots []SignatureSlot) ([]byte, error) {
	pdf := newDoc()
	r.header(pdf, headerWorkProgress, doc.Number)

	vendorName := ""
	if doc.Vendor != nil {
		vendorName = doc.Vendor.Name
	}
	r.infoRow(pdf, "Vendor", vendorName)
	r.infoRow(pdf, "Nomor Kontrak", doc.ContractNumber)
	r.infoRow(pdf, "Nama Proyek", doc.ProjectName)
	r.infoRow(pdf, "Lokasi Proyek", doc.ProjectLocation)
	r.infoRow(pdf, "Periode", fmt.Sprintf("%s s/d %s",
		doc.StartDate.Format("02-01-2006"), doc.EndDate.Format("02-01-2006")))
	r.infoRow(pdf, "Total Kemajuan", fmt.Sprintf("%.2f%%", doc.TotalProgress))
	r.infoRow(pdf, "Status", doc.Status)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(10, 7, "No", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Uraian Pekerjaan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Rencana", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Realisasi", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Kualitas", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range doc.WorkItems {
		pdf.CellFormat(10, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 7, item.WorkItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f%%", item.PlannedProgress), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f%%", item.ActualProgress), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, item.Quality, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	if doc.Notes != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Catatan:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, doc.Notes, "", "L", false)
		pdf.Ln(4)
	}

	r.signatures(pdf, slots, doc.CreatedAt)
	return output(pdf)
}

// signatures lays the signature blocks out side by side. Unsigned slots and
// slots whose file is missing degrade to a placeholder line.
func (r *PDFRenderer) signatures(pdf *fpdf.Fpdf, slots []SignatureSlot, date time.Time) {
	if len(slots) == 0 {
		return
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Jakarta, %s", date.Format("02 January 2006")), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	colWidth := 180.0 / float64(len(slots))
	startY := pdf.GetY()

	for i, slot := range slots {
		x := 15 + float64(i)*colWidth
		pdf.SetXY(x, startY)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(colWidth, 6, slot.Title, "", 0, "C", false, 0, "")

		if slot.ImagePath != "" {
			opts := fpdf.ImageOptions{ReadDpi: true}
			pdf.ImageOptions(slot.ImagePath, x+colWidth/2-20, startY+8, 40, 20, false, opts, 0, "")
		} else {
			pdf.SetXY(x, startY+16)
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(colWidth, 6, unsignedPlaceholder, "", 0, "C", false, 0, "")
		}

		pdf.SetXY(x, startY+30)
		pdf.SetFont("Arial", "BU", 10)
		name := slot.Name
		if name == "" {
			name = "(....................)"
		}
		pdf.CellFormat(colWidth, 6, name, "", 0, "C", false, 0, "")
	}
	pdf.SetY(startY + 40)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
