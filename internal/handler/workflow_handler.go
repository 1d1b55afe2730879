package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keramy/formula-pm/internal/service"
)

// WorkflowHandler serves the derived workflow analysis views.
type WorkflowHandler struct {
	svc *service.WorkflowService
}

// NewWorkflowHandler creates the workflow handler.
func NewWorkflowHandler(svc *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

// GetWorkflowStatus returns the project dependency analysis.
// GET /api/v1/projects/:id/workflow
// Backend failures degrade to an empty analysis; the response is still 200
// with degraded=true so UIs never crash on a transient backend error.
func (h *WorkflowHandler) GetWorkflowStatus(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		BadRequest(c, "Project ID is required")
		return
	}

	status := h.svc.GetWorkflowStatus(c.Request.Context(), projectID)
	Success(c, status)
}

// parseStartDate reads the start query param (YYYY-MM-DD), defaulting to
// today.
func parseStartDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("start")
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	start, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

// GetTimeline returns the integrated workflow timeline.
// GET /api/v1/projects/:id/workflow/timeline?start=2024-01-01
func (h *WorkflowHandler) GetTimeline(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		BadRequest(c, "Project ID is required")
		return
	}

	start, ok := parseStartDate(c)
	if !ok {
		BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}

	timeline, err := h.svc.GetTimeline(c.Request.Context(), projectID, start)
	if err != nil {
		BadGateway(c, "Failed to fetch project data: "+err.Error())
		return
	}
	Success(c, timeline)
}

// GetGantt returns the timeline flattened into Gantt rows.
// GET /api/v1/projects/:id/workflow/gantt?start=2024-01-01
func (h *WorkflowHandler) GetGantt(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		BadRequest(c, "Project ID is required")
		return
	}

	start, ok := parseStartDate(c)
	if !ok {
		BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}

	rows, err := h.svc.GetGanttRows(c.Request.Context(), projectID, start)
	if err != nil {
		BadGateway(c, "Failed to fetch project data: "+err.Error())
		return
	}
	Success(c, gin.H{"rows": rows})
}
