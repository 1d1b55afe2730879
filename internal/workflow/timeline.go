package workflow

import (
	"fmt"
	"time"

	"github.com/keramy/formula-pm/internal/entity"
)

// Default stage durations in days.
const (
	durScopeDefinition = 1
	durDrawingCreation = 7
	durDrawingApproval = 3 // per unapproved drawing
	durSpecCreation    = 5
	durSpecApproval    = 3 // per unapproved spec
	durProductionReady = 1
	durProduction      = 21
	durInstallation    = 7
)

// constructionOverlapDays is the fixed allowance by which millwork, electric
// and mep may overlap the tail of construction.
const constructionOverlapDays = 14

// ItemWorkflow is the dated stage sequence for one scope item.
type ItemWorkflow struct {
	ScopeItemID string                 `json:"scope_item_id"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Group       string                 `json:"group"`
	StartDate   time.Time              `json:"start_date"`
	EndDate     time.Time              `json:"end_date"`
	IsBlocked   bool                   `json:"is_blocked"`
	Blockers    []Blocker              `json:"blockers"`
	Stages      []entity.WorkflowStage `json:"stages"`
}

// GroupTimeline is the laid-out timeline of one scope group.
type GroupTimeline struct {
	Group     string         `json:"group"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Progress  int            `json:"progress"`
	Status    string         `json:"status"`
	Items     []ItemWorkflow `json:"items"`
}

// ProjectTimeline is the integrated projection of all four groups.
type ProjectTimeline struct {
	ProjectStartDate time.Time                `json:"project_start_date"`
	ProjectEndDate   time.Time                `json:"project_end_date"`
	TotalDuration    int                      `json:"total_duration_days"`
	CriticalPath     []string                 `json:"critical_path"`
	Groups           map[string]GroupTimeline `json:"group_timelines"`
	WorkflowStatus   *ProjectAnalysis         `json:"workflow_status"`
}

// GanttRow is one flattened row for a Gantt-style rendering. Tag is an
// opaque CSS-class-like label, not a rendering concern here.
type GanttRow struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type"` // group | item | stage
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Progress  int    `json:"progress"`
	Tag       string `json:"tag"`
}

// CreateIntegratedTimeline projects the scope item set into dated workflow
// stages. Construction is scheduled first from the supplied start date; the
// other three groups are anchored two weeks before construction ends. The
// whole structure is recomputed from scratch on every call.
func (a *Analyzer) CreateIntegratedTimeline(items []entity.ScopeItem, drawings []entity.ShopDrawing, specs []entity.MaterialSpec, startDate time.Time) *ProjectTimeline {
	groups := GroupItems(items)

	constructionTL := a.createGroupTimeline(entity.GroupConstruction, groups[entity.GroupConstruction], drawings, specs, startDate)

	overlapStart := constructionTL.EndDate.AddDate(0, 0, -constructionOverlapDays)
	groupTimelines := map[string]GroupTimeline{
		entity.GroupConstruction: constructionTL,
	}
	for _, g := range []string{entity.GroupMillwork, entity.GroupElectric, entity.GroupMEP} {
		groupTimelines[g] = a.createGroupTimeline(g, groups[g], drawings, specs, overlapStart)
	}

	earliestStart, latestEnd := startDate, constructionTL.EndDate
	for _, tl := range groupTimelines {
		if tl.StartDate.Before(earliestStart) {
			earliestStart = tl.StartDate
		}
		if tl.EndDate.After(latestEnd) {
			latestEnd = tl.EndDate
		}
	}

	return &ProjectTimeline{
		ProjectStartDate: startDate,
		ProjectEndDate:   latestEnd,
		TotalDuration:    daysBetween(earliestStart, latestEnd),
		CriticalPath:     criticalPath(groupTimelines),
		Groups:           groupTimelines,
		WorkflowStatus:   a.AnalyzeProject(items, drawings, specs),
	}
}

// createGroupTimeline lays out the items of one group from the given start.
// Consecutive items of the same category queue sequentially; a category
// change leaves the cursor in place (parallel work).
func (a *Analyzer) createGroupTimeline(group string, items []entity.ScopeItem, drawings []entity.ShopDrawing, specs []entity.MaterialSpec, start time.Time) GroupTimeline {
	tl := GroupTimeline{
		Group:     group,
		StartDate: start,
		EndDate:   start,
		Progress:  GroupProgress(items),
	}
	tl.Status = entity.DeriveStageStatus(tl.Progress)
	if len(items) == 0 {
		return tl
	}

	cursor := start
	for i, item := range items {
		wf := a.createScopeItemWorkflow(item, group, drawings, specs, cursor)
		tl.Items = append(tl.Items, wf)
		if wf.EndDate.After(tl.EndDate) {
			tl.EndDate = wf.EndDate
		}
		if i+1 < len(items) && shouldRunSequentially(item, items[i+1]) {
			cursor = wf.EndDate
		}
	}
	return tl
}

// shouldRunSequentially reports whether two consecutive items contend for
// the same trade: identical category strings queue one after another.
func shouldRunSequentially(a, b entity.ScopeItem) bool {
	return a.Category == b.Category
}

// createScopeItemWorkflow builds the ordered stage sequence for one item.
// Creation stages appear only when the required artifact is missing;
// approval stages repeat once per connected-but-unapproved artifact.
func (a *Analyzer) createScopeItemWorkflow(item entity.ScopeItem, group string, drawings []entity.ShopDrawing, specs []entity.MaterialSpec, start time.Time) ItemWorkflow {
	linkedDrawings := a.registry.ConnectedDrawings(item.ID, drawings)
	linkedSpecs := a.registry.ConnectedMaterialSpecs(item.ID, specs)
	blockers := EvaluateBlockers(item, linkedDrawings, linkedSpecs)
	blocked := len(blockers) > 0
	progress := item.ProgressValue()

	wf := ItemWorkflow{
		ScopeItemID: item.ID,
		Description: item.Description,
		Category:    item.Category,
		Group:       group,
		StartDate:   start,
		IsBlocked:   blocked,
		Blockers:    blockers,
	}

	cursor := start
	addStage := func(stageID, name string, duration, stageProgress int) {
		end := cursor.AddDate(0, 0, duration)
		wf.Stages = append(wf.Stages, entity.WorkflowStage{
			StageID:   stageID,
			Name:      name,
			StartDate: cursor,
			EndDate:   end,
			Duration:  duration,
			Progress:  stageProgress,
			Status:    entity.DeriveStageStatus(stageProgress),
		})
		cursor = end
	}

	addStage(entity.StageScopeDefinition, "Scope Definition", durScopeDefinition, progress)

	if hasBlocker(blockers, BlockerMissingShopDrawing) {
		addStage(entity.StageShopDrawingCreation, "Shop Drawing Creation", durDrawingCreation, 0)
	}
	for _, d := range linkedDrawings {
		if d.Drawing.Approved() {
			continue
		}
		name := "Shop Drawing Approval"
		if d.Drawing.FileName != "" {
			name = fmt.Sprintf("Shop Drawing Approval (%s)", d.Drawing.FileName)
		}
		addStage(entity.StageShopDrawingApproval, name, durDrawingApproval, 0)
	}

	if hasBlocker(blockers, BlockerMissingMaterialSpec) {
		addStage(entity.StageMaterialSpecCreation, "Material Spec Creation", durSpecCreation, 0)
	}
	for _, m := range linkedSpecs {
		if m.Spec.Approved() {
			continue
		}
		name := "Material Spec Approval"
		if m.Spec.Material != "" {
			name = fmt.Sprintf("Material Spec Approval (%s)", m.Spec.Material)
		}
		addStage(entity.StageMaterialSpecApproval, name, durSpecApproval, 0)
	}

	readyProgress := 0
	if !blocked {
		readyProgress = 100
	}
	addStage(entity.StageProductionReady, "Production Ready", durProductionReady, readyProgress)

	productionProgress := 0
	if !blocked {
		productionProgress = progress
	}
	addStage(entity.StageProduction, "Production", durProduction, productionProgress)

	installProgress := 0
	if item.Status == entity.ScopeStatusCompleted {
		installProgress = 100
	}
	addStage(entity.StageInstallation, "Installation", durInstallation, installProgress)

	wf.EndDate = cursor
	return wf
}

func hasBlocker(blockers []Blocker, blockerType string) bool {
	for _, b := range blockers {
		if b.Type == blockerType {
			return true
		}
	}
	return false
}

// criticalPath always includes construction plus the longest of the other
// three groups. A coarse 2-hop path, not full CPM.
func criticalPath(groups map[string]GroupTimeline) []string {
	path := []string{entity.GroupConstruction}

	longest := ""
	longestDur := 0
	for _, g := range []string{entity.GroupMillwork, entity.GroupElectric, entity.GroupMEP} {
		tl := groups[g]
		if len(tl.Items) == 0 {
			continue
		}
		dur := daysBetween(tl.StartDate, tl.EndDate)
		if dur > longestDur {
			longest, longestDur = g, dur
		}
	}
	if longest != "" {
		path = append(path, longest)
	}
	return path
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// TransformToGantt flattens a project timeline into renderable rows: group
// headers, scope-item rows and stage sub-rows, dates as ISO strings.
func TransformToGantt(tl *ProjectTimeline) []GanttRow {
	var rows []GanttRow
	for _, g := range entity.AllGroups {
		gt := tl.Groups[g]
		groupRowID := "group-" + g
		rows = append(rows, GanttRow{
			ID:        groupRowID,
			Name:      g,
			Type:      "group",
			StartDate: isoDate(gt.StartDate),
			EndDate:   isoDate(gt.EndDate),
			Progress:  gt.Progress,
			Tag:       "gantt-group gantt-group-" + g,
		})
		for _, wf := range gt.Items {
			itemRowID := "item-" + wf.ScopeItemID
			rows = append(rows, GanttRow{
				ID:        itemRowID,
				ParentID:  groupRowID,
				Name:      wf.Description,
				Type:      "item",
				StartDate: isoDate(wf.StartDate),
				EndDate:   isoDate(wf.EndDate),
				Progress:  itemWorkflowProgress(wf),
				Tag:       ganttItemTag(wf),
			})
			for i, stage := range wf.Stages {
				rows = append(rows, GanttRow{
					ID:        fmt.Sprintf("%s-%s-%d", itemRowID, stage.StageID, i),
					ParentID:  itemRowID,
					Name:      stage.Name,
					Type:      "stage",
					StartDate: isoDate(stage.StartDate),
					EndDate:   isoDate(stage.EndDate),
					Progress:  stage.Progress,
					Tag:       "gantt-stage gantt-stage-" + stage.StageID,
				})
			}
		}
	}
	return rows
}

func itemWorkflowProgress(wf ItemWorkflow) int {
	for _, s := range wf.Stages {
		if s.StageID == entity.StageScopeDefinition {
			return s.Progress
		}
	}
	return 0
}

func ganttItemTag(wf ItemWorkflow) string {
	if wf.IsBlocked {
		return "gantt-item gantt-item-blocked"
	}
	return "gantt-item"
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
