package entity

// ApprovalStatus values shared by shop drawings and material specs.
const (
	ApprovalPending          = "pending"
	ApprovalApproved         = "approved"
	ApprovalRevisionRequired = "revision_required"
	ApprovalRejected         = "rejected"
)

// ShopDrawing is a submitted drawing document. ScopeItemIDs is the
// backend-asserted implicit linkage; explicit links live in the Connection
// registry.
type ShopDrawing struct {
	ID           string   `json:"id"`
	ProjectID    string   `json:"project_id"`
	FileName     string   `json:"file_name"`
	DrawingType  string   `json:"drawing_type"`
	Room         string   `json:"room"`
	Status       string   `json:"status"`
	ScopeItemIDs []string `json:"scope_item_ids,omitempty"`
}

// Approved reports whether the drawing has passed approval.
func (d *ShopDrawing) Approved() bool {
	return d.Status == ApprovalApproved
}

// MaterialSpec is a material specification document, linked to scope items
// the same dual way as shop drawings.
type MaterialSpec struct {
	ID           string   `json:"id"`
	ProjectID    string   `json:"project_id"`
	Category     string   `json:"category"`
	Material     string   `json:"material"`
	Supplier     string   `json:"supplier"`
	Status       string   `json:"status"`
	ScopeItemIDs []string `json:"scope_item_ids,omitempty"`
}

// Approved reports whether the spec has passed approval.
func (m *MaterialSpec) Approved() bool {
	return m.Status == ApprovalApproved
}
