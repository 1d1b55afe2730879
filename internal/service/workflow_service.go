package service

import (
	"context"
	"sync"
	"time"

	"github.com/keramy/formula-pm/internal/entity"
	"github.com/keramy/formula-pm/internal/workflow"
	"go.uber.org/zap"
)

// Backend is the slice of the Formula PM backend API this service consumes.
type Backend interface {
	GetScopeItems(ctx context.Context, projectID string) ([]entity.ScopeItem, error)
	GetShopDrawings(ctx context.Context, projectID string) ([]entity.ShopDrawing, error)
	GetMaterialSpecs(ctx context.Context, projectID string) ([]entity.MaterialSpec, error)
}

// WorkflowStatus is the project analysis plus fetch provenance. Degraded is
// set when the backend could not be reached and the analysis fell back to
// empty collections, so callers can tell "zero items" from "fetch failed".
type WorkflowStatus struct {
	ProjectID      string                    `json:"project_id"`
	Degraded       bool                      `json:"degraded"`
	DegradedReason string                    `json:"degraded_reason,omitempty"`
	GeneratedAt    time.Time                 `json:"generated_at"`
	Analysis       *workflow.ProjectAnalysis `json:"analysis"`
}

// WorkflowService wires the backend client to the analysis core.
type WorkflowService struct {
	backend  Backend
	analyzer *workflow.Analyzer
	logger   *zap.Logger
}

// NewWorkflowService creates the workflow service. The registry is owned by
// the caller so its session lifetime matches the process, not the service.
func NewWorkflowService(backend Backend, registry *workflow.ConnectionRegistry, logger *zap.Logger) *WorkflowService {
	return &WorkflowService{
		backend:  backend,
		analyzer: workflow.NewAnalyzer(registry),
		logger:   logger,
	}
}

// Registry exposes the connection registry for the connection endpoints.
func (s *WorkflowService) Registry() *workflow.ConnectionRegistry {
	return s.analyzer.Registry()
}

// collections bundles one project's fetched entity sets.
type collections struct {
	items    []entity.ScopeItem
	drawings []entity.ShopDrawing
	specs    []entity.MaterialSpec
}

// fetchCollections loads the three entity sets concurrently and waits for
// all of them. Any failure fails the whole fetch; there is no
// partial-success path and no retry.
func (s *WorkflowService) fetchCollections(ctx context.Context, projectID string) (collections, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		col  collections
		fail error
	)

	record := func(err error) {
		mu.Lock()
		if fail == nil {
			fail = err
		}
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		items, err := s.backend.GetScopeItems(ctx, projectID)
		if err != nil {
			record(err)
			return
		}
		col.items = items
	}()
	go func() {
		defer wg.Done()
		drawings, err := s.backend.GetShopDrawings(ctx, projectID)
		if err != nil {
			record(err)
			return
		}
		col.drawings = drawings
	}()
	go func() {
		defer wg.Done()
		specs, err := s.backend.GetMaterialSpecs(ctx, projectID)
		if err != nil {
			record(err)
			return
		}
		col.specs = specs
	}()
	wg.Wait()

	if fail != nil {
		return collections{}, fail
	}
	return col, nil
}

// GetWorkflowStatus fetches fresh collections and analyzes them. Backend
// failures never propagate: the result degrades to an empty-collection
// analysis with the degraded flag set, and the error is logged.
func (s *WorkflowService) GetWorkflowStatus(ctx context.Context, projectID string) *WorkflowStatus {
	status := &WorkflowStatus{
		ProjectID:   projectID,
		GeneratedAt: time.Now(),
	}

	col, err := s.fetchCollections(ctx, projectID)
	if err != nil {
		s.logger.Warn("workflow status fetch failed, falling back to empty analysis",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		status.Degraded = true
		status.DegradedReason = err.Error()
		status.Analysis = s.analyzer.AnalyzeProject(nil, nil, nil)
		return status
	}

	status.Analysis = s.analyzer.AnalyzeProject(col.items, col.drawings, col.specs)
	return status
}

// AnalyzeProject runs the analysis over caller-supplied collections without
// touching the backend.
func (s *WorkflowService) AnalyzeProject(items []entity.ScopeItem, drawings []entity.ShopDrawing, specs []entity.MaterialSpec) *workflow.ProjectAnalysis {
	return s.analyzer.AnalyzeProject(items, drawings, specs)
}

// GetTimeline fetches fresh collections and projects the integrated
// timeline from the given start date.
func (s *WorkflowService) GetTimeline(ctx context.Context, projectID string, start time.Time) (*workflow.ProjectTimeline, error) {
	col, err := s.fetchCollections(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.analyzer.CreateIntegratedTimeline(col.items, col.drawings, col.specs, start), nil
}

// GetGanttRows is GetTimeline flattened for Gantt rendering.
func (s *WorkflowService) GetGanttRows(ctx context.Context, projectID string, start time.Time) ([]workflow.GanttRow, error) {
	tl, err := s.GetTimeline(ctx, projectID, start)
	if err != nil {
		return nil, err
	}
	return workflow.TransformToGantt(tl), nil
}

// GetItemConnections resolves the drawings and specs linked to one scope
// item against fresh backend collections.
func (s *WorkflowService) GetItemConnections(ctx context.Context, projectID, scopeItemID string) (workflow.ItemConnections, error) {
	col, err := s.fetchCollections(ctx, projectID)
	if err != nil {
		return workflow.ItemConnections{}, err
	}
	return workflow.ItemConnections{
		Drawings:  s.Registry().ConnectedDrawings(scopeItemID, col.drawings),
		Materials: s.Registry().ConnectedMaterialSpecs(scopeItemID, col.specs),
	}, nil
}
