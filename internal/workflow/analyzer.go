package workflow

import (
	"fmt"

	"github.com/keramy/formula-pm/internal/entity"
)

// ItemConnections carries the resolved links used during analysis.
type ItemConnections struct {
	Drawings  []LinkedDrawing      `json:"drawings"`
	Materials []LinkedMaterialSpec `json:"materials"`
}

// ItemAnalysis is the per-item dependency result.
type ItemAnalysis struct {
	ScopeItemID string          `json:"scope_item_id"`
	IsBlocked   bool            `json:"is_blocked"`
	HasWarnings bool            `json:"has_warnings"`
	Blockers    []Blocker       `json:"blockers"`
	Warnings    []Warning       `json:"warnings"`
	Connections ItemConnections `json:"connections"`
}

// GroupBlock describes one group holding back (or being held back by)
// another.
type GroupBlock struct {
	Group     string `json:"group"`
	Progress  int    `json:"progress"`
	Remaining int    `json:"remaining,omitempty"`
}

// GroupAnalysis is the per-group dependency result.
type GroupAnalysis struct {
	Group     string       `json:"group"`
	Progress  int          `json:"progress"`
	CanStart  bool         `json:"can_start"`
	BlockedBy []GroupBlock `json:"blocked_by"`
	Blocking  []GroupBlock `json:"blocking"`
}

// Recommendation is purely advisory text; nothing acts on it automatically.
type Recommendation struct {
	Type    string `json:"type"` // urgent | warning | dependency
	Group   string `json:"group,omitempty"`
	Message string `json:"message"`
}

// ProjectAnalysis is the whole-project dependency result. Every item lands
// in exactly one of Blockers / Warnings / Ready (blocked wins over warning).
type ProjectAnalysis struct {
	Blockers          []ItemAnalysis           `json:"blockers"`
	Warnings          []ItemAnalysis           `json:"warnings"`
	Ready             []ItemAnalysis           `json:"ready"`
	GroupDependencies map[string]GroupAnalysis `json:"group_dependencies"`
	Recommendations   []Recommendation         `json:"recommendations"`
}

// Analyzer computes production-readiness from entity collections and the
// connection registry. It never fails: absent fields default and malformed
// links are silently inert.
type Analyzer struct {
	registry *ConnectionRegistry
}

// NewAnalyzer creates an analyzer over the given registry.
func NewAnalyzer(registry *ConnectionRegistry) *Analyzer {
	return &Analyzer{registry: registry}
}

// Registry exposes the underlying connection registry.
func (a *Analyzer) Registry() *ConnectionRegistry {
	return a.registry
}

// AnalyzeScopeItem computes the blocking state of a single scope item
// against the supplied drawing and spec collections.
func (a *Analyzer) AnalyzeScopeItem(item entity.ScopeItem, drawings []entity.ShopDrawing, specs []entity.MaterialSpec) ItemAnalysis {
	linkedDrawings := a.registry.ConnectedDrawings(item.ID, drawings)
	linkedSpecs := a.registry.ConnectedMaterialSpecs(item.ID, specs)

	blockers := EvaluateBlockers(item, linkedDrawings, linkedSpecs)

	var warnings []Warning
	if item.ProgressValue() > 0 && len(blockers) > 0 {
		warnings = append(warnings, Warning{
			Type:    WarningProgressWithBlockers,
			Message: "item has progress but has production blockers",
		})
	}

	return ItemAnalysis{
		ScopeItemID: item.ID,
		IsBlocked:   len(blockers) > 0,
		HasWarnings: len(warnings) > 0,
		Blockers:    blockers,
		Warnings:    warnings,
		Connections: ItemConnections{Drawings: linkedDrawings, Materials: linkedSpecs},
	}
}

// AnalyzeGroups computes canStart/blockedBy/blocking for the four fixed
// groups from already-bucketed items.
func AnalyzeGroups(groups map[string][]entity.ScopeItem) map[string]GroupAnalysis {
	progress := make(map[string]int, len(entity.AllGroups))
	for _, g := range entity.AllGroups {
		progress[g] = GroupProgress(groups[g])
	}

	out := make(map[string]GroupAnalysis, len(entity.AllGroups))
	for _, g := range entity.AllGroups {
		deps := groupDependencies[g]
		analysis := GroupAnalysis{
			Group:    g,
			Progress: progress[g],
			CanStart: true,
		}

		for _, dep := range deps.DependsOn {
			if progress[dep] < 100 {
				analysis.CanStart = false
				analysis.BlockedBy = append(analysis.BlockedBy, GroupBlock{
					Group:     dep,
					Progress:  progress[dep],
					Remaining: 100 - progress[dep],
				})
			}
		}

		// A dependent group that already has progress while this group is
		// unfinished signals a premature start.
		if progress[g] < 100 {
			for _, dependent := range deps.Blocks {
				if progress[dependent] > 0 {
					analysis.Blocking = append(analysis.Blocking, GroupBlock{
						Group:    dependent,
						Progress: progress[dependent],
					})
				}
			}
		}

		out[g] = analysis
	}
	return out
}

// AnalyzeProject runs the per-item analysis over all items, partitions them
// into blockers/warnings/ready, and attaches group dependencies and
// recommendations.
func (a *Analyzer) AnalyzeProject(items []entity.ScopeItem, drawings []entity.ShopDrawing, specs []entity.MaterialSpec) *ProjectAnalysis {
	result := &ProjectAnalysis{
		Blockers: []ItemAnalysis{},
		Warnings: []ItemAnalysis{},
		Ready:    []ItemAnalysis{},
	}

	for _, item := range items {
		analysis := a.AnalyzeScopeItem(item, drawings, specs)
		switch {
		case analysis.IsBlocked:
			result.Blockers = append(result.Blockers, analysis)
		case analysis.HasWarnings:
			result.Warnings = append(result.Warnings, analysis)
		default:
			result.Ready = append(result.Ready, analysis)
		}
	}

	result.GroupDependencies = AnalyzeGroups(GroupItems(items))
	result.Recommendations = buildRecommendations(result)
	return result
}

func buildRecommendations(p *ProjectAnalysis) []Recommendation {
	var recs []Recommendation

	if len(p.Blockers) > 0 {
		recs = append(recs, Recommendation{
			Type:    "urgent",
			Message: fmt.Sprintf("%d scope item(s) are blocked from production; resolve missing or unapproved drawings and specs", len(p.Blockers)),
		})
	}
	if len(p.Warnings) > 0 {
		recs = append(recs, Recommendation{
			Type:    "warning",
			Message: fmt.Sprintf("%d scope item(s) report progress despite open blockers", len(p.Warnings)),
		})
	}
	for _, g := range entity.AllGroups {
		ga := p.GroupDependencies[g]
		if !ga.CanStart && ga.Progress > 0 {
			recs = append(recs, Recommendation{
				Type:    "dependency",
				Group:   g,
				Message: fmt.Sprintf("%s work has started at %d%% before its dependencies completed", g, ga.Progress),
			})
		}
	}
	return recs
}
