package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/keramy/formula-pm/internal/entity"
	"github.com/keramy/formula-pm/internal/workflow"
)

// fakeBackend is an in-memory Backend with optional per-collection failures.
type fakeBackend struct {
	items    []entity.ScopeItem
	drawings []entity.ShopDrawing
	specs    []entity.MaterialSpec

	itemsErr    error
	drawingsErr error
	specsErr    error
}

func (f *fakeBackend) GetScopeItems(ctx context.Context, projectID string) ([]entity.ScopeItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeBackend) GetShopDrawings(ctx context.Context, projectID string) ([]entity.ShopDrawing, error) {
	return f.drawings, f.drawingsErr
}

func (f *fakeBackend) GetMaterialSpecs(ctx context.Context, projectID string) ([]entity.MaterialSpec, error) {
	return f.specs, f.specsErr
}

func newTestService(backend Backend) *WorkflowService {
	return NewWorkflowService(backend, workflow.NewConnectionRegistry(), zap.NewNop())
}

func TestGetWorkflowStatus(t *testing.T) {
	off := false
	backend := &fakeBackend{
		items: []entity.ScopeItem{
			{ID: "item-1", Category: "construction", MaterialSpecRequired: &off},
		},
	}
	svc := newTestService(backend)

	status := svc.GetWorkflowStatus(context.Background(), "proj-1")
	if status.Degraded {
		t.Fatalf("unexpected degraded status: %s", status.DegradedReason)
	}
	if status.ProjectID != "proj-1" {
		t.Errorf("project id = %q", status.ProjectID)
	}
	if len(status.Analysis.Ready) != 1 {
		t.Errorf("expected 1 ready item, got %+v", status.Analysis)
	}
}

func TestGetWorkflowStatusDegradesOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{
		items:       []entity.ScopeItem{{ID: "item-1"}},
		drawingsErr: errors.New("connection refused"),
	}
	svc := newTestService(backend)

	status := svc.GetWorkflowStatus(context.Background(), "proj-1")
	if !status.Degraded {
		t.Fatal("expected degraded status when a fetch fails")
	}
	if status.DegradedReason == "" {
		t.Error("expected degraded reason to carry the error")
	}
	if status.Analysis == nil {
		t.Fatal("degraded status must still carry an analysis")
	}
	// Empty-collection analysis, not partial data
	if len(status.Analysis.Blockers)+len(status.Analysis.Warnings)+len(status.Analysis.Ready) != 0 {
		t.Error("degraded analysis must be computed over empty collections")
	}
	if len(status.Analysis.GroupDependencies) != 4 {
		t.Errorf("expected 4 group analyses, got %d", len(status.Analysis.GroupDependencies))
	}
}

func TestGetTimelinePropagatesError(t *testing.T) {
	backend := &fakeBackend{specsErr: errors.New("boom")}
	svc := newTestService(backend)

	if _, err := svc.GetTimeline(context.Background(), "proj-1", time.Now()); err == nil {
		t.Fatal("expected timeline fetch error to propagate")
	}
}

func TestGetTimeline(t *testing.T) {
	off := false
	backend := &fakeBackend{
		items: []entity.ScopeItem{
			{ID: "c1", Category: "construction", MaterialSpecRequired: &off},
		},
	}
	svc := newTestService(backend)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tl, err := svc.GetTimeline(context.Background(), "proj-1", start)
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if !tl.ProjectStartDate.Equal(start) {
		t.Errorf("project start = %v", tl.ProjectStartDate)
	}
	if len(tl.Groups) != 4 {
		t.Errorf("expected 4 group timelines, got %d", len(tl.Groups))
	}
}

func TestGetGanttRows(t *testing.T) {
	off := false
	backend := &fakeBackend{
		items: []entity.ScopeItem{
			{ID: "c1", Category: "construction", Description: "foundation", MaterialSpecRequired: &off},
		},
	}
	svc := newTestService(backend)

	rows, err := svc.GetGanttRows(context.Background(), "proj-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetGanttRows: %v", err)
	}
	// 4 group rows + 1 item row + 4 stage rows
	if len(rows) != 9 {
		t.Errorf("expected 9 gantt rows, got %d", len(rows))
	}
}

func TestGetItemConnections(t *testing.T) {
	backend := &fakeBackend{
		drawings: []entity.ShopDrawing{
			{ID: "d1", ScopeItemIDs: []string{"item-1"}},
		},
		specs: []entity.MaterialSpec{
			{ID: "s1", ScopeItemIDs: []string{"item-1"}},
			{ID: "s2", ScopeItemIDs: []string{"item-2"}},
		},
	}
	svc := newTestService(backend)

	conns, err := svc.GetItemConnections(context.Background(), "proj-1", "item-1")
	if err != nil {
		t.Fatalf("GetItemConnections: %v", err)
	}
	if len(conns.Drawings) != 1 || len(conns.Materials) != 1 {
		t.Errorf("unexpected connections: %+v", conns)
	}
}
