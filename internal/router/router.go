package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tastestack/backend/internal/api"
	"github.com/tastestack/backend/internal/middleware"
)

// SetupRouter configures the application routes. limiter may be nil when
// rate limiting is disabled (no redis configured).
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	interactionHandler *api.InteractionHandler,
	allowedOrigins []string,
	limiter gin.HandlerFunc,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	authHandler.RegisterRoutes(apiGroup, limiter)
	recipeHandler.RegisterRoutes(apiGroup)
	interactionHandler.RegisterRoutes(apiGroup)

	return router
}
