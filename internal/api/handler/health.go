package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/foodlens/internal/service"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	analyzeService *service.AnalyzeService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(analyzeService *service.AnalyzeService) *HealthHandler {
	return &HealthHandler{analyzeService: analyzeService}
}

// Health returns the health status of the service
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyzeService.Health())
}
