// Package client talks to the Formula PM backend REST API, which owns the
// scope item, shop drawing and material spec collections. This service only
// reads them; all mutation goes through the backend directly.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/keramy/formula-pm/internal/entity"
)

// Client is the Formula PM backend API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a backend client. An empty timeout falls back to 30s.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// get executes a GET request and decodes the data payload into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned %d for %s: %s", resp.StatusCode, path, truncate(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	if env.Code != 0 {
		return fmt.Errorf("backend error [%d] for %s: %s", env.Code, path, env.Message)
	}
	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decode data for %s: %w", path, err)
		}
	}
	return nil
}

// GetScopeItems fetches all scope items of a project.
func (c *Client) GetScopeItems(ctx context.Context, projectID string) ([]entity.ScopeItem, error) {
	var items []entity.ScopeItem
	q := url.Values{"project_id": {projectID}}
	if err := c.get(ctx, "/api/v1/scope-items", q, &items); err != nil {
		return nil, fmt.Errorf("fetch scope items: %w", err)
	}
	return items, nil
}

// GetShopDrawings fetches all shop drawings of a project.
func (c *Client) GetShopDrawings(ctx context.Context, projectID string) ([]entity.ShopDrawing, error) {
	var drawings []entity.ShopDrawing
	q := url.Values{"project_id": {projectID}}
	if err := c.get(ctx, "/api/v1/shop-drawings", q, &drawings); err != nil {
		return nil, fmt.Errorf("fetch shop drawings: %w", err)
	}
	return drawings, nil
}

// GetMaterialSpecs fetches all material specifications of a project.
func (c *Client) GetMaterialSpecs(ctx context.Context, projectID string) ([]entity.MaterialSpec, error) {
	var specs []entity.MaterialSpec
	q := url.Values{"project_id": {projectID}}
	if err := c.get(ctx, "/api/v1/material-specifications", q, &specs); err != nil {
		return nil, fmt.Errorf("fetch material specs: %w", err)
	}
	return specs, nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
