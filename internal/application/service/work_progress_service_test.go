package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

func validProgressInput() WorkProgressInput {
	return WorkProgressInput{
		ContractNumber:  "CTR-2026-007",
		ContractAmount:  250_000_000,
		ProjectName:     "Renovasi Gudang Timur",
		ProjectLocation: "Bekasi",
		StartDate:       time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		WorkItems: []WorkItemInput{
			{WorkItemName: "Pondasi", PlannedProgress: 100, ActualProgress: 40, Unit: "persen", Quality: entity.QualityGood},
			{WorkItemName: "Rangka atap", PlannedProgress: 80, ActualProgress: 60, Unit: "persen", Quality: entity.QualityExcellent},
		},
	}
}

func TestComputeTotalProgress(t *testing.T) {
	tests := []struct {
		name  string
		items []*entity.WorkItem
		want  float64
	}{
		{"no items", nil, 0},
		{"single item", []*entity.WorkItem{{ActualProgress: 75}}, 75},
		{"mean of two", []*entity.WorkItem{{ActualProgress: 40}, {ActualProgress: 60}}, 50},
		{"rounds to two decimals", []*entity.WorkItem{{ActualProgress: 33.333}, {ActualProgress: 33.333}, {ActualProgress: 33.334}}, 33.33},
		{"repeating third rounds", []*entity.WorkItem{{ActualProgress: 50}, {ActualProgress: 50}, {ActualProgress: 100}}, 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeTotalProgress(tt.items); got != tt.want {
				t.Errorf("computeTotalProgress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorkProgressService_Create(t *testing.T) {
	t.Run("derives number and total progress", func(t *testing.T) {
		var replaced []*entity.WorkItem
		repo := &mockWorkProgressRepo{
			countCreatedSinceFunc: func(ctx context.Context, since time.Time) (int64, error) {
				return 0, nil
			},
			replaceItemsFunc: func(ctx context.Context, docID int64, items []*entity.WorkItem) error {
				replaced = items
				return nil
			},
		}
		svc := NewWorkProgressService(&mockTxManager{}, repo, zap.NewNop())
		svc.now = fixedClock(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

		doc, err := svc.Create(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor}, validProgressInput())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if doc.Number != "BAPP/2026/09/0001" {
			t.Errorf("Create() number = %s, want BAPP/2026/09/0001", doc.Number)
		}
		if doc.TotalProgress != 50 {
			t.Errorf("Create() total progress = %v, want 50", doc.TotalProgress)
		}
		if doc.ContractAmount != 250_000_000 {
			t.Errorf("Create() contract amount = %v", doc.ContractAmount)
		}
		if doc.Status != entity.StatusDraft {
			t.Errorf("Create() status = %s, want draft", doc.Status)
		}
		if len(replaced) != 2 {
			t.Errorf("Create() wrote %d work items, want 2", len(replaced))
		}
	})

	t.Run("non-vendor forbidden", func(t *testing.T) {
		svc := NewWorkProgressService(&mockTxManager{}, &mockWorkProgressRepo{}, zap.NewNop())
		_, err := svc.Create(context.Background(), port.Actor{ID: 1, Role: entity.RoleApprover}, validProgressInput())
		if !apperror.IsForbidden(err) {
			t.Errorf("Create() error = %v, want forbidden", err)
		}
	})

	t.Run("validation names work item fields", func(t *testing.T) {
		svc := NewWorkProgressService(&mockTxManager{}, &mockWorkProgressRepo{}, zap.NewNop())

		in := validProgressInput()
		in.EndDate = in.StartDate.AddDate(0, -1, 0)
		in.WorkItems = []WorkItemInput{
			{WorkItemName: "", ActualProgress: 130, Unit: "", Quality: "superb"},
		}
		_, err := svc.Create(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor}, in)
		if !apperror.IsValidation(err) {
			t.Fatalf("Create() error = %v, want validation", err)
		}

		verr := err.(*apperror.ValidationError)
		fields := make(map[string]bool, len(verr.Fields))
		for _, f := range verr.Fields {
			fields[f.Field] = true
		}
		for _, want := range []string{"end_date", "work_items[0].work_item_name", "work_items[0].actual_progress", "work_items[0].unit", "work_items[0].quality"} {
			if !fields[want] {
				t.Errorf("Create() missing field error for %s, got %v", want, verr.Fields)
			}
		}
	})
}

func TestWorkProgressService_Update(t *testing.T) {
	t.Run("recomputes total progress from new items", func(t *testing.T) {
		var replaced []*entity.WorkItem
		repo := &mockWorkProgressRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.WorkProgress, error) {
				return &entity.WorkProgress{ID: id, VendorID: 10, Status: entity.StatusRevisionRequired, TotalProgress: 10}, nil
			},
			replaceItemsFunc: func(ctx context.Context, docID int64, items []*entity.WorkItem) error {
				replaced = items
				return nil
			},
		}
		svc := NewWorkProgressService(&mockTxManager{}, repo, zap.NewNop())

		in := validProgressInput()
		in.WorkItems = []WorkItemInput{
			{WorkItemName: "Pondasi", ActualProgress: 100, Unit: "persen", Quality: entity.QualityGood},
			{WorkItemName: "Dinding", ActualProgress: 85, Unit: "persen", Quality: entity.QualityAcceptable},
		}
		doc, err := svc.Update(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor}, 1, in)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if doc.TotalProgress != 92.5 {
			t.Errorf("Update() total progress = %v, want 92.5", doc.TotalProgress)
		}
		if len(replaced) != 2 {
			t.Errorf("Update() replaced %d items, want 2", len(replaced))
		}
	})

	t.Run("omitted item set keeps items and total progress", func(t *testing.T) {
		replaceCalled := false
		var savedTotal float64
		repo := &mockWorkProgressRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.WorkProgress, error) {
				return &entity.WorkProgress{ID: id, VendorID: 10, Status: entity.StatusDraft, TotalProgress: 40}, nil
			},
			updateFunc: func(ctx context.Context, doc *entity.WorkProgress) error {
				savedTotal = doc.TotalProgress
				return nil
			},
			replaceItemsFunc: func(ctx context.Context, docID int64, items []*entity.WorkItem) error {
				replaceCalled = true
				return nil
			},
			getItemsFunc: func(ctx context.Context, docID int64) ([]*entity.WorkItem, error) {
				return []*entity.WorkItem{{ID: 3, WorkProgressID: docID, WorkItemName: "Pondasi", ActualProgress: 40}}, nil
			},
		}
		svc := NewWorkProgressService(&mockTxManager{}, repo, zap.NewNop())

		in := validProgressInput()
		in.WorkItems = nil
		doc, err := svc.Update(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor}, 1, in)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if replaceCalled {
			t.Errorf("header-only Update replaced the work item set")
		}
		if savedTotal != 40 {
			t.Errorf("header-only Update saved total progress %v, want the stored 40", savedTotal)
		}
		if doc.TotalProgress != 40 || len(doc.WorkItems) != 1 {
			t.Errorf("Update() total = %v items = %d, want 40 and 1", doc.TotalProgress, len(doc.WorkItems))
		}
	})

	t.Run("blocked in review", func(t *testing.T) {
		repo := &mockWorkProgressRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.WorkProgress, error) {
				return &entity.WorkProgress{ID: id, VendorID: 10, Status: entity.StatusInReview}, nil
			},
		}
		svc := NewWorkProgressService(&mockTxManager{}, repo, zap.NewNop())
		_, err := svc.Update(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor}, 1, validProgressInput())
		if !apperror.IsStateConflict(err) {
			t.Errorf("Update() error = %v, want state conflict", err)
		}
	})
}

func TestWorkProgressService_Delete(t *testing.T) {
	repo := &mockWorkProgressRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.WorkProgress, error) {
			return &entity.WorkProgress{ID: id, VendorID: 10, Status: entity.StatusApproved}, nil
		},
	}
	svc := NewWorkProgressService(&mockTxManager{}, repo, zap.NewNop())

	err := svc.Delete(context.Background(), port.Actor{ID: 10, Role: entity.RoleVendor}, 1)
	if !apperror.IsStateConflict(err) {
		t.Errorf("Delete() error = %v, want state conflict for approved document", err)
	}
}
