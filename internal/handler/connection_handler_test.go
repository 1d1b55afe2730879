package handler

import (
	"net/http"
	"testing"

	"github.com/keramy/formula-pm/internal/entity"
	"github.com/keramy/formula-pm/internal/testutil"
)

func TestCreateConnectionEndpoint(t *testing.T) {
	r, svc := setupWorkflowRouter(&stubBackend{})

	body := map[string]interface{}{
		"scope_item_id": "item-1",
		"target_type":   "drawing",
		"target_id":     "draw-1",
		"notes":         "kitchen link",
	}
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/connections", body, testutil.DefaultTestToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["id"] != "scope_item-1_drawing_draw-1" {
		t.Errorf("connection id = %v", data["id"])
	}

	if _, ok := svc.Registry().GetConnection("scope_item-1_drawing_draw-1"); !ok {
		t.Error("connection not stored in registry")
	}
}

func TestCreateConnectionValidation(t *testing.T) {
	r, _ := setupWorkflowRouter(&stubBackend{})

	body := map[string]interface{}{"target_type": "drawing"}
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/connections", body, testutil.DefaultTestToken())
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRemoveConnectionEndpoint(t *testing.T) {
	r, svc := setupWorkflowRouter(&stubBackend{})
	conn := svc.Registry().CreateConnection(entity.SourceScope, "item-1", entity.TargetDrawing, "draw-1", "")

	w := testutil.DoRequest(r, http.MethodDelete, "/api/v1/connections/"+conn.ID, nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	// Second delete: gone
	w = testutil.DoRequest(r, http.MethodDelete, "/api/v1/connections/"+conn.ID, nil, testutil.DefaultTestToken())
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetItemConnectionsEndpoint(t *testing.T) {
	backend := &stubBackend{
		drawings: []entity.ShopDrawing{
			{ID: "d1", FileName: "kitchen.pdf", ScopeItemIDs: []string{"item-1"}},
		},
		specs: []entity.MaterialSpec{
			{ID: "s1", Material: "oak", ScopeItemIDs: []string{"item-1"}},
		},
	}
	r, svc := setupWorkflowRouter(backend)
	svc.Registry().CreateConnection(entity.SourceScope, "item-1", entity.TargetMaterial, "s1", "manual")

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/projects/proj-1/scope-items/item-1/connections", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	drawings := data["drawings"].([]interface{})
	materials := data["materials"].([]interface{})
	if len(drawings) != 1 || len(materials) != 1 {
		t.Errorf("expected 1 drawing and 1 material, got %d/%d", len(drawings), len(materials))
	}

	// Explicit connection wins over the auto-link for the same spec
	mat := materials[0].(map[string]interface{})
	if mat["connection_id"] != "scope_item-1_material_s1" {
		t.Errorf("connection_id = %v", mat["connection_id"])
	}
}
