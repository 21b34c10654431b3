package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/glasspane/workspaced/internal/api/http"
	"github.com/glasspane/workspaced/internal/api/middleware"
	"github.com/glasspane/workspaced/internal/api/ws"
	"github.com/glasspane/workspaced/internal/domain/layout"
	"github.com/glasspane/workspaced/internal/domain/workspace"
	"github.com/glasspane/workspaced/internal/infrastructure/config"
	"github.com/glasspane/workspaced/internal/infrastructure/logging"
	"github.com/glasspane/workspaced/internal/infrastructure/monitoring"
	"github.com/glasspane/workspaced/internal/storage"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	manager *workspace.Manager
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a fully wired server instance.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing workspaced",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("registry_key", cfg.Workspace.RegistryKey),
	)

	metrics := monitoring.NewMetrics()

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	// The daemon has no display surface of its own; the configured
	// fallback viewport stands in for the host window.
	fallback := layout.Viewport{
		Height: cfg.Workspace.ViewportHeight,
		Width:  cfg.Workspace.ViewportWidth,
	}
	geometry := layout.NewGeometry(func() (layout.Viewport, bool) {
		return fallback, true
	})
	reconciler := layout.NewReconciler(geometry)

	manager := workspace.NewManager(store, cfg.Workspace.RegistryKey, reconciler, logger).
		WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(manager, geometry)
	wsHandler := ws.NewHandler(manager, logger, metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Application lifecycle
	router.GET("/apps", handlers.ListApps)
	router.GET("/apps/open", handlers.ListOpenApps)
	router.GET("/apps/:id", handlers.GetApp)
	router.POST("/apps", handlers.OpenApp)
	router.PATCH("/apps/:id", handlers.UpdateApp)
	router.DELETE("/apps/:id", handlers.CloseApp)

	// Pure layout computation
	router.GET("/layouts/minimum", handlers.MinimumLayout)
	router.GET("/layouts/default", handlers.DefaultLayout)
	router.GET("/layouts/maximum", handlers.MaximumLayout)

	// WebSocket update stream
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", metrics.Handler())

	return &Server{
		router:  router,
		manager: manager,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Manager exposes the state engine for embedding callers.
func (s *Server) Manager() *workspace.Manager {
	return s.manager
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)
	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}

	s.logger.Info("Server listening", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down")
	defer s.logger.Sync() //nolint:errcheck

	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func newStore(cfg *config.Config) (workspace.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil
	case "file":
		store, err := storage.NewFile(cfg.Storage.Path, cfg.Storage.Compress)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
