package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetScopeItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/scope-items" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("project_id"); got != "proj-1" {
			t.Errorf("project_id = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"message":"success","data":[
			{"id":"item-1","category":"millwork","progress":40,"shop_drawing_required":true},
			{"id":"item-2","category":"construction","status":"completed"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token", 5*time.Second)
	items, err := c.GetScopeItems(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("GetScopeItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "item-1" || !items[0].ShopDrawingRequired {
		t.Errorf("unexpected item[0]: %+v", items[0])
	}
	if items[0].Progress == nil || *items[0].Progress != 40 {
		t.Errorf("expected progress 40, got %v", items[0].Progress)
	}
	if items[1].Progress != nil {
		t.Error("absent progress must decode as nil")
	}
	if items[1].ProgressValue() != 100 {
		t.Errorf("status fallback progress = %d, want 100", items[1].ProgressValue())
	}
}

func TestGetShopDrawingsEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":40400,"message":"project not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	_, err := c.GetShopDrawings(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error from non-zero envelope code")
	}
	if !strings.Contains(err.Error(), "project not found") {
		t.Errorf("error should carry backend message: %v", err)
	}
}

func TestGetMaterialSpecsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	_, err := c.GetMaterialSpecs(context.Background(), "proj-1")
	if err == nil {
		t.Fatal("expected error from 502 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should name the status code: %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.GetScopeItems(ctx, "proj-1"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
