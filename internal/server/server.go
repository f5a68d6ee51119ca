package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tastestack/backend/config"
	"github.com/tastestack/backend/internal/api"
	"github.com/tastestack/backend/internal/database"
	"github.com/tastestack/backend/internal/middleware"
	"github.com/tastestack/backend/internal/router"
	"github.com/tastestack/backend/internal/service"
)

// Server wires the database, services and HTTP router together.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New builds a ready-to-start server from configuration.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	fileStore, err := service.NewFileStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	var limiter gin.HandlerFunc
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     10,
			KeyPrefix: "ratelimit:auth",
		}).RateLimitMiddleware()
	} else {
		log.Printf("Redis not configured, rate limiting disabled")
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	interactionService := service.NewInteractionService(db)

	authHandler := api.NewAuthHandler(authService, userService, fileStore)
	recipeHandler := api.NewRecipeHandler(recipeService, interactionService, authService, fileStore)
	interactionHandler := api.NewInteractionHandler(interactionService, authService)

	engine := router.SetupRouter(authHandler, recipeHandler, interactionHandler, cfg.AllowedOrigins, limiter)

	if cfg.StorageBackend == "local" {
		engine.Static("/media", cfg.StoragePath)
	}

	return &Server{
		engine: engine,
		db:     db,
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler: engine,
		},
	}, nil
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
