package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/foodlens/internal/service"
)

// respondError writes {success:false,error} with the status the error maps to.
func respondError(c *gin.Context, err error) {
	c.JSON(service.StatusCode(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
