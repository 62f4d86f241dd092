package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/foodlens/internal/api/handler"
	"github.com/timmy/foodlens/internal/api/middleware"
	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	analyzeService *service.AnalyzeService,
	cfg *config.ServerConfig,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	healthHandler := handler.NewHealthHandler(analyzeService)
	analyzeHandler := handler.NewAnalyzeHandler(analyzeService)
	foodHandler := handler.NewFoodHandler(analyzeService)

	// Health check
	r.GET("/health", healthHandler.Health)

	r.POST("/analyze", analyzeHandler.Analyze)

	// Lookup table
	r.GET("/foods", foodHandler.ListFoods)
	r.GET("/foods/:id", foodHandler.GetFood)

	return r
}
