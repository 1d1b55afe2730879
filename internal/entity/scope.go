package entity

// ScopeItem is a unit of work belonging to a project.
// Progress is optional: when absent the status fallback applies (see ProgressValue).
type ScopeItem struct {
	ID                  string  `json:"id"`
	ProjectID           string  `json:"project_id"`
	Category            string  `json:"category"`
	Description         string  `json:"description"`
	Quantity            float64 `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`
	Progress            *int    `json:"progress,omitempty"`
	Status              string  `json:"status"`
	ShopDrawingRequired bool    `json:"shop_drawing_required"`
	// MaterialSpecRequired defaults to required when unset; only an explicit
	// false opts the item out.
	MaterialSpecRequired *bool `json:"material_spec_required,omitempty"`
}

// Scope item status values.
const (
	ScopeStatusPending    = "pending"
	ScopeStatusInProgress = "in-progress"
	ScopeStatusCompleted  = "completed"
)

// Normalize recomputes derived fields. TotalPrice is always quantity times
// unit price, recomputed on every edit.
func (s *ScopeItem) Normalize() {
	s.TotalPrice = s.Quantity * s.UnitPrice
}

// ProgressValue returns the item progress, falling back to a status-derived
// value (completed=100, in-progress=50, else 0) when progress is unset.
func (s *ScopeItem) ProgressValue() int {
	if s.Progress != nil {
		return *s.Progress
	}
	switch s.Status {
	case ScopeStatusCompleted:
		return 100
	case ScopeStatusInProgress:
		return 50
	default:
		return 0
	}
}

// MaterialSpecNeeded reports whether the item requires a material spec.
func (s *ScopeItem) MaterialSpecNeeded() bool {
	return s.MaterialSpecRequired == nil || *s.MaterialSpecRequired
}

// Scope group keys. Exactly four fixed groups; membership is derived from
// the category text, never stored.
const (
	GroupConstruction = "construction"
	GroupMillwork     = "millwork"
	GroupElectric     = "electric"
	GroupMEP          = "mep"
)

// AllGroups lists the group keys in evaluation order.
var AllGroups = []string{GroupConstruction, GroupMillwork, GroupElectric, GroupMEP}
