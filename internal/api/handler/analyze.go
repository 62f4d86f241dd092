package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/foodlens/internal/service"
)

// AnalyzeHandler handles image analysis endpoints.
type AnalyzeHandler struct {
	analyzeService *service.AnalyzeService
}

// NewAnalyzeHandler creates a new analyze handler.
// Parameters:
//   - analyzeService: analyze service instance.
// Returns:
//   - *AnalyzeHandler: initialized handler.
func NewAnalyzeHandler(analyzeService *service.AnalyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzeService: analyzeService,
	}
}

// Analyze handles POST /analyze.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req service.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ValidationError("No image_path provided"))
		return
	}

	withSummary, _ := strconv.ParseBool(c.Query("summary"))

	result, err := h.analyzeService.Analyze(c.Request.Context(), req.ImagePath, withSummary)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
