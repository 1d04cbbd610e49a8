// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"voluntr_backend/internal/auth"
	"voluntr_backend/internal/config"
	"voluntr_backend/internal/friend"
	"voluntr_backend/internal/jobs"
	"voluntr_backend/internal/middleware"
	"voluntr_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Jobs
	requestPruneJob *jobs.RequestPruneJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	friendHandler *friend.Handler,
	gate *auth.Gate,
	friendRequestLimiter *middleware.RateLimiter,
	requestPruneJob *jobs.RequestPruneJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := NewRouter(cfg, logger, db)

	authMW := middleware.AuthMiddleware(gate, logger.Named("AuthMiddleware"))

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1, authMW)
	friendHandler.RegisterRoutes(v1, authMW, friendRequestLimiter.Middleware())

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		requestPruneJob: requestPruneJob,
	}, nil
}

// NewRouter builds the gin engine with the global middleware and the health route.
func NewRouter(cfg *config.Config, logger *zap.Logger, db *gorm.DB) *gin.Engine {
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NoRoute)
	router.NoMethod(middleware.NoMethod)

	router.GET("/health", healthHandler(cfg, db))
	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	return corsConfig
}

func healthHandler(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, dbStatus := http.StatusOK, "UP"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, dbStatus = http.StatusServiceUnavailable, "DOWN"
		}
		c.JSON(status, gin.H{
			"status":   dbStatus,
			"app":      cfg.AppName,
			"database": dbStatus,
		})
	}
}

// Start runs the background jobs and blocks serving HTTP until shutdown.
func (s *Server) Start() error {
	if s.requestPruneJob != nil {
		if err := s.requestPruneJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start request prune job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

// Shutdown stops the jobs and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.requestPruneJob != nil {
		s.requestPruneJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
