package entity

import (
	"fmt"
	"time"
)

// Connection target kinds. Unknown kinds are accepted but never resolve.
const (
	TargetDrawing  = "drawing"
	TargetMaterial = "material"
	SourceScope    = "scope"
)

// Connection is an explicit link record between a scope item and a drawing
// or material spec. Held in the in-memory registry for the session only.
type Connection struct {
	ID         string    `json:"id"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConnectionID builds the deterministic composite identifier. Creating the
// same (source, target) pair twice overwrites the earlier record.
func ConnectionID(sourceType, sourceID, targetType, targetID string) string {
	return fmt.Sprintf("%s_%s_%s_%s", sourceType, sourceID, targetType, targetID)
}
