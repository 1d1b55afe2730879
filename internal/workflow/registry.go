package workflow

import (
	"sync"
	"time"

	"github.com/keramy/formula-pm/internal/entity"
)

// autoLinkNotes marks connections synthesized from backend scopeItemIDs.
const autoLinkNotes = "Auto-linked from backend"

// LinkedDrawing pairs a resolved connection with its drawing.
type LinkedDrawing struct {
	ConnectionID string             `json:"connection_id"`
	Notes        string             `json:"notes,omitempty"`
	Drawing      entity.ShopDrawing `json:"drawing"`
}

// LinkedMaterialSpec pairs a resolved connection with its material spec.
type LinkedMaterialSpec struct {
	ConnectionID string              `json:"connection_id"`
	Notes        string              `json:"notes,omitempty"`
	Spec         entity.MaterialSpec `json:"material_spec"`
}

// ConnectionRegistry holds the session's explicit scope-item links. It is an
// injected instance, not a package singleton, so concurrent analyses and
// tests never share mutable state. Identical connection ids overwrite (last
// write wins).
type ConnectionRegistry struct {
	mu          sync.RWMutex
	connections map[string]*entity.Connection
	order       []string // insertion order of ids, for deterministic resolution
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		connections: make(map[string]*entity.Connection),
	}
}

// CreateConnection stores a link between a source and a target and returns
// it. Type values are not validated; unrecognized kinds simply never resolve
// to anything.
func (r *ConnectionRegistry) CreateConnection(sourceType, sourceID, targetType, targetID, notes string) *entity.Connection {
	conn := &entity.Connection{
		ID:         entity.ConnectionID(sourceType, sourceID, targetType, targetID),
		SourceType: sourceType,
		SourceID:   sourceID,
		TargetType: targetType,
		TargetID:   targetID,
		Notes:      notes,
		CreatedAt:  time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.connections[conn.ID]; !exists {
		r.order = append(r.order, conn.ID)
	}
	r.connections[conn.ID] = conn
	return conn
}

// RemoveConnection deletes by id and reports whether it existed. Removing an
// absent connection is not an error.
func (r *ConnectionRegistry) RemoveConnection(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.connections[connectionID]; !ok {
		return false
	}
	delete(r.connections, connectionID)
	for i, id := range r.order {
		if id == connectionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// GetConnection looks up a connection by id.
func (r *ConnectionRegistry) GetConnection(connectionID string) (*entity.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.connections[connectionID]
	return conn, ok
}

// ListConnections returns all connections for a scope item in insertion
// order.
func (r *ConnectionRegistry) ListConnections(scopeItemID string) []*entity.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Connection
	for _, id := range r.order {
		conn := r.connections[id]
		if conn.SourceID == scopeItemID {
			out = append(out, conn)
		}
	}
	return out
}

// ConnectedDrawings resolves the drawings linked to a scope item: explicit
// connections whose target is present in the supplied collection, then
// drawings whose own scopeItemIDs list the item (auto-link). Deduplicated by
// drawing id, explicit connections preferred.
func (r *ConnectionRegistry) ConnectedDrawings(scopeItemID string, drawings []entity.ShopDrawing) []LinkedDrawing {
	byID := make(map[string]entity.ShopDrawing, len(drawings))
	for _, d := range drawings {
		byID[d.ID] = d
	}

	var out []LinkedDrawing
	seen := make(map[string]bool)

	r.mu.RLock()
	for _, id := range r.order {
		conn := r.connections[id]
		if conn.SourceID != scopeItemID || conn.TargetType != entity.TargetDrawing {
			continue
		}
		drawing, ok := byID[conn.TargetID]
		if !ok || seen[drawing.ID] {
			continue
		}
		seen[drawing.ID] = true
		out = append(out, LinkedDrawing{ConnectionID: conn.ID, Notes: conn.Notes, Drawing: drawing})
	}
	r.mu.RUnlock()

	for _, d := range drawings {
		if seen[d.ID] || !containsID(d.ScopeItemIDs, scopeItemID) {
			continue
		}
		seen[d.ID] = true
		out = append(out, LinkedDrawing{
			ConnectionID: "auto_" + scopeItemID + "_" + d.ID,
			Notes:        autoLinkNotes,
			Drawing:      d,
		})
	}
	return out
}

// ConnectedMaterialSpecs resolves the material specs linked to a scope item,
// with the same explicit-then-auto merge as ConnectedDrawings.
func (r *ConnectionRegistry) ConnectedMaterialSpecs(scopeItemID string, specs []entity.MaterialSpec) []LinkedMaterialSpec {
	byID := make(map[string]entity.MaterialSpec, len(specs))
	for _, m := range specs {
		byID[m.ID] = m
	}

	var out []LinkedMaterialSpec
	seen := make(map[string]bool)

	r.mu.RLock()
	for _, id := range r.order {
		conn := r.connections[id]
		if conn.SourceID != scopeItemID || conn.TargetType != entity.TargetMaterial {
			continue
		}
		spec, ok := byID[conn.TargetID]
		if !ok || seen[spec.ID] {
			continue
		}
		seen[spec.ID] = true
		out = append(out, LinkedMaterialSpec{ConnectionID: conn.ID, Notes: conn.Notes, Spec: spec})
	}
	r.mu.RUnlock()

	for _, m := range specs {
		if seen[m.ID] || !containsID(m.ScopeItemIDs, scopeItemID) {
			continue
		}
		seen[m.ID] = true
		out = append(out, LinkedMaterialSpec{
			ConnectionID: "auto_" + scopeItemID + "_" + m.ID,
			Notes:        autoLinkNotes,
			Spec:         m,
		})
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
