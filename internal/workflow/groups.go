package workflow

import (
	"math"
	"strings"

	"github.com/keramy/formula-pm/internal/entity"
)

// groupRule maps category keywords to a scope group. Rules are evaluated in
// order, first match wins; items matching nothing default to construction.
type groupRule struct {
	group    string
	keywords []string
}

var groupRules = []groupRule{
	{entity.GroupConstruction, []string{"construction", "structural", "concrete", "framing", "demolition"}},
	{entity.GroupMillwork, []string{"millwork", "cabinet", "woodwork", "custom", "carpentry"}},
	{entity.GroupElectric, []string{"electric", "electrical", "lighting", "power", "wiring"}},
	{entity.GroupMEP, []string{"mep", "mechanical", "plumbing", "hvac", "ventilation"}},
}

// groupDependencies is the fixed dependency table: millwork, electric and
// mep each depend on construction; construction depends on nothing and
// blocks the other three. Not configurable.
var groupDependencies = map[string]struct {
	DependsOn []string
	Blocks    []string
}{
	entity.GroupConstruction: {Blocks: []string{entity.GroupMillwork, entity.GroupElectric, entity.GroupMEP}},
	entity.GroupMillwork:     {DependsOn: []string{entity.GroupConstruction}},
	entity.GroupElectric:     {DependsOn: []string{entity.GroupConstruction}},
	entity.GroupMEP:          {DependsOn: []string{entity.GroupConstruction}},
}

// ClassifyGroup derives the scope group for an item. The category string is
// matched first; the description is consulted only when the category is
// empty.
func ClassifyGroup(item entity.ScopeItem) string {
	text := strings.ToLower(item.Category)
	if text == "" {
		text = strings.ToLower(item.Description)
	}
	for _, rule := range groupRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.group
			}
		}
	}
	return entity.GroupConstruction
}

// GroupItems buckets scope items into the four fixed groups. Every group key
// is present in the result even when empty.
func GroupItems(items []entity.ScopeItem) map[string][]entity.ScopeItem {
	groups := make(map[string][]entity.ScopeItem, len(entity.AllGroups))
	for _, g := range entity.AllGroups {
		groups[g] = nil
	}
	for _, item := range items {
		g := ClassifyGroup(item)
		groups[g] = append(groups[g], item)
	}
	return groups
}

// GroupProgress is the arithmetic mean of per-item progress values, rounded
// to the nearest integer. An empty group has progress 0.
func GroupProgress(items []entity.ScopeItem) int {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, item := range items {
		sum += item.ProgressValue()
	}
	return int(math.Round(float64(sum) / float64(len(items))))
}
