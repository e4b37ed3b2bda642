package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/domain/entity"
)

func TestPDFRenderer_GoodsReceipt(t *testing.T) {
	r := NewPDFRenderer(zap.NewNop())

	doc := &entity.GoodsReceipt{
		Number:       "BAPB/2026/09/0001",
		OrderNumber:  "PO-2026-001",
		DeliveryDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Status:       entity.StatusApproved,
		Notes:        "Pemeriksaan selesai tanpa temuan",
		CreatedAt:    time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		Vendor:       &entity.User{Name: "PT Maju Jaya"},
		Items: []*entity.GoodsReceiptItem{
			{ItemName: "Semen 50kg", QuantityOrdered: 100, QuantityReceived: 98, Unit: "sak", Condition: entity.ConditionGood},
			{ItemName: "Besi beton 12mm", QuantityOrdered: 50, QuantityReceived: 50, Unit: "batang", Condition: entity.ConditionShort},
		},
	}
	slots := []SignatureSlot{
		{Title: "Pihak Vendor,", Name: "Andi Wijaya"},
		{Title: "Pihak Gudang,"},
	}

	raw, err := r.GoodsReceipt(doc, slots)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "output is not a PDF")
	assert.Greater(t, len(raw), 1000)
}

func TestPDFRenderer_WorkProgress(t *testing.T) {
	r := NewPDFRenderer(zap.NewNop())

	doc := &entity.WorkProgress{
		Number:          "BAPP/2026/09/0001",
		ContractNumber:  "CTR-2026-007",
		ProjectName:     "Renovasi Gudang Timur",
		ProjectLocation: "Bekasi",
		StartDate:       time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:          entity.StatusInReview,
		TotalProgress:   66.67,
		CreatedAt:       time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		Vendor:          &entity.User{Name: "PT Maju Jaya"},
		WorkItems: []*entity.WorkItem{
			{WorkItemName: "Pondasi", PlannedProgress: 100, ActualProgress: 100, Quality: entity.QualityGood},
			{WorkItemName: "Rangka atap", PlannedProgress: 80, ActualProgress: 33.34, Quality: entity.QualityAcceptable},
		},
	}

	raw, err := r.WorkProgress(doc, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "output is not a PDF")
}
