package http

import (
	"github.com/gin-gonic/gin"

	"github.com/drinkradar/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(handler.log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Live price search
	router.GET("/search", handler.Search)

	// Persisted history
	router.GET("/products", handler.Products)
	database := router.Group("/database")
	{
		database.GET("/stats", handler.DatabaseStats)
		database.DELETE("/cleanup", handler.DatabaseCleanup)
	}

	return router
}
