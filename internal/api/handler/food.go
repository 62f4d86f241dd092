package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/foodlens/internal/service"
)

// FoodHandler exposes the lookup table read-only.
type FoodHandler struct {
	analyzeService *service.AnalyzeService
}

// NewFoodHandler creates a new food handler.
func NewFoodHandler(analyzeService *service.AnalyzeService) *FoodHandler {
	return &FoodHandler{analyzeService: analyzeService}
}

// ListFoods handles GET /foods.
func (h *FoodHandler) ListFoods(c *gin.Context) {
	foods := h.analyzeService.Foods()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(foods),
		"foods":   foods,
	})
}

// GetFood handles GET /foods/:id.
func (h *FoodHandler) GetFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, service.ValidationError("Invalid food id"))
		return
	}

	food, err := h.analyzeService.Food(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"food":    food,
	})
}
