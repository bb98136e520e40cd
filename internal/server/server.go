package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/config"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/server/routes"
)

// Server represents the HTTP server with all dependencies
type Server struct {
	router     *gin.Engine
	logger     *slog.Logger
	config     *config.Config
	db         *gorm.DB
	httpServer *http.Server
}

// New creates a new server instance with all dependencies
func New(cfg *config.Config, logger *slog.Logger, db *gorm.DB) *Server {
	// Configure Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Environment == "development" {
		gin.SetMode(gin.DebugMode)
	}

	// Create Gin router
	router := gin.New()

	// Create server instance
	server := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	// Setup middleware and routes
	server.setupMiddleware()
	routes.Setup(router, db, cfg)

	return server
}

// setupMiddleware configures global middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recovers from panics
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		s.logger.Error("Panic recovered", "error", recovered)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	}))

	// Request logger keyed to status class
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			s.logger.Error("HTTP Request",
				"method", c.Request.Method,
				"path", path,
				"status", statusCode,
				"latency", latency,
			)
		case statusCode >= 400:
			s.logger.Warn("HTTP Request",
				"method", c.Request.Method,
				"path", path,
				"status", statusCode,
				"latency", latency,
			)
		default:
			if s.config.Environment != "production" || path != "/health" {
				s.logger.Info("HTTP Request",
					"method", c.Request.Method,
					"path", path,
					"status", statusCode,
					"latency", latency,
				)
			}
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		"address", s.httpServer.Addr,
		"environment", s.config.Environment,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start server", "error", err)
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// GetHTTPServer returns the underlying http.Server for graceful shutdown
func (s *Server) GetHTTPServer() *http.Server {
	return s.httpServer
}

// GetRouter returns the Gin router (useful for testing)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
