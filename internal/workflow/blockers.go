package workflow

import (
	"fmt"
	"strings"

	"github.com/keramy/formula-pm/internal/entity"
)

// Blocker types.
const (
	BlockerMissingShopDrawing     = "missing_shop_drawing"
	BlockerUnapprovedShopDrawing  = "unapproved_shop_drawing"
	BlockerMissingMaterialSpec    = "missing_material_spec"
	BlockerUnapprovedMaterialSpec = "unapproved_material_spec"
)

// WarningProgressWithBlockers is the only warning rule: progress recorded on
// an item that still has production blockers.
const WarningProgressWithBlockers = "progress_with_blockers"

// Blocker is one production-blocking condition on a scope item.
type Blocker struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Warning is an advisory condition that does not block production.
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// drawingRuleKeywords widen the shop-drawing rule condition beyond the
// explicit flag. The rule is asymmetric on purpose: the missing-drawing
// branch tests only ShopDrawingRequired, so a category-implied item with
// zero drawings is not blocked.
var drawingRuleKeywords = []string{"cabinet", "millwork", "custom"}

func categoryImpliesDrawing(category string) bool {
	c := strings.ToLower(category)
	for _, kw := range drawingRuleKeywords {
		if strings.Contains(c, kw) {
			return true
		}
	}
	return false
}

// EvaluateBlockers applies the production-blocking rules to a scope item and
// its resolved connections. This is the single blocking-rule evaluator
// shared by the dependency analyzer and the timeline projector.
func EvaluateBlockers(item entity.ScopeItem, drawings []LinkedDrawing, specs []LinkedMaterialSpec) []Blocker {
	var blockers []Blocker

	if item.ShopDrawingRequired || categoryImpliesDrawing(item.Category) {
		if item.ShopDrawingRequired && len(drawings) == 0 {
			blockers = append(blockers, Blocker{
				Type:    BlockerMissingShopDrawing,
				Message: "shop drawing required but none connected",
			})
		} else if n := countUnapprovedDrawings(drawings); n > 0 {
			blockers = append(blockers, Blocker{
				Type:    BlockerUnapprovedShopDrawing,
				Message: fmt.Sprintf("%d connected shop drawing(s) not approved", n),
				Count:   n,
			})
		}
	}

	if item.MaterialSpecNeeded() {
		if len(specs) == 0 {
			blockers = append(blockers, Blocker{
				Type:    BlockerMissingMaterialSpec,
				Message: "material specification required but none connected",
			})
		} else if n := countUnapprovedSpecs(specs); n > 0 {
			blockers = append(blockers, Blocker{
				Type:    BlockerUnapprovedMaterialSpec,
				Message: fmt.Sprintf("%d connected material spec(s) not approved", n),
				Count:   n,
			})
		}
	}

	return blockers
}

func countUnapprovedDrawings(drawings []LinkedDrawing) int {
	n := 0
	for _, d := range drawings {
		if !d.Drawing.Approved() {
			n++
		}
	}
	return n
}

func countUnapprovedSpecs(specs []LinkedMaterialSpec) int {
	n := 0
	for _, m := range specs {
		if !m.Spec.Approved() {
			n++
		}
	}
	return n
}
