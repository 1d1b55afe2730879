package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/keramy/formula-pm/internal/entity"
	"github.com/keramy/formula-pm/internal/service"
)

// ConnectionHandler manages the session's explicit scope-item links.
type ConnectionHandler struct {
	svc *service.WorkflowService
}

// NewConnectionHandler creates the connection handler.
func NewConnectionHandler(svc *service.WorkflowService) *ConnectionHandler {
	return &ConnectionHandler{svc: svc}
}

// CreateConnectionRequest is the link-creation payload. Target type should
// be one of the recognized kinds (drawing, material); anything else is
// stored but never resolves.
type CreateConnectionRequest struct {
	ScopeItemID string `json:"scope_item_id" binding:"required"`
	TargetType  string `json:"target_type" binding:"required"`
	TargetID    string `json:"target_id" binding:"required"`
	Notes       string `json:"notes"`
}

// CreateConnection links a scope item to a drawing or material spec.
// POST /api/v1/connections
func (h *ConnectionHandler) CreateConnection(c *gin.Context) {
	var req CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	conn := h.svc.Registry().CreateConnection(entity.SourceScope, req.ScopeItemID, req.TargetType, req.TargetID, req.Notes)
	Created(c, conn)
}

// RemoveConnection deletes an explicit link by id.
// DELETE /api/v1/connections/:id
func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Connection ID is required")
		return
	}

	if !h.svc.Registry().RemoveConnection(id) {
		NotFound(c, "Connection not found")
		return
	}
	Success(c, gin.H{"removed": id})
}

// GetItemConnections resolves the drawings and specs linked to a scope item
// against fresh backend collections.
// GET /api/v1/projects/:id/scope-items/:itemId/connections
func (h *ConnectionHandler) GetItemConnections(c *gin.Context) {
	projectID := c.Param("id")
	itemID := c.Param("itemId")
	if projectID == "" || itemID == "" {
		BadRequest(c, "Project ID and scope item ID are required")
		return
	}

	connections, err := h.svc.GetItemConnections(c.Request.Context(), projectID, itemID)
	if err != nil {
		BadGateway(c, "Failed to fetch project data: "+err.Error())
		return
	}
	Success(c, connections)
}
