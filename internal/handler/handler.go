package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/keramy/formula-pm/internal/service"
)

// Handlers groups the HTTP handlers.
type Handlers struct {
	Workflow   *WorkflowHandler
	Connection *ConnectionHandler
}

// NewHandlers creates the handler set over the workflow service.
func NewHandlers(svc *service.WorkflowService) *Handlers {
	return &Handlers{
		Workflow:   NewWorkflowHandler(svc),
		Connection: NewConnectionHandler(svc),
	}
}

// Response is the uniform API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope; the HTTP status is code/100.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest invalid request parameters
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound missing resource
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError server-side failure
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// BadGateway upstream backend failure
func BadGateway(c *gin.Context, message string) {
	Error(c, 50200, message)
}

// GetUserID reads the authenticated user id from the context.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
