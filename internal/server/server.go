// Package server exposes the HTTP surface: the public submission
// endpoint, the admin review endpoints, and operational diagnostics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/files"
	"loan-intake/internal/notify"
	"loan-intake/internal/store"
	"loan-intake/internal/submission"
)

type Server struct {
	cfg          *config.Config
	engine       *gin.Engine
	httpServer   *http.Server
	orchestrator *submission.Orchestrator
	store        *store.Store
	filesRepo    *files.Repository
	notifier     *notify.Dispatcher
	logger       logger.Logger
	startTime    time.Time
}

func New(cfg *config.Config, orch *submission.Orchestrator, st *store.Store, repo *files.Repository, notifier *notify.Dispatcher, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		store:        st,
		filesRepo:    repo,
		notifier:     notifier,
		logger:       log.WithFields(map[string]interface{}{"component": "server"}),
		startTime:    time.Now(),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestIDMiddleware())
	engine.Use(s.loggingMiddleware())
	engine.Use(s.metricsMiddleware())

	engine.POST("/apply", s.maxBodyMiddleware(), s.handleApply)

	engine.GET("/health", s.handleHealth)
	engine.GET("/status", s.handleStatus)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.GET("/email/config", s.handleEmailConfig)
	engine.POST("/email/test", s.handleEmailTest)

	admin := engine.Group("/admin")
	admin.GET("/applications", s.handleListApplications)
	admin.GET("/applications/:id", s.handleGetApplication)
	admin.GET("/uploads", s.handleUploadStructure)

	s.engine = engine
	return s
}

// Engine exposes the router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) uptime() time.Duration {
	return time.Since(s.startTime)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("http server starting", map[string]interface{}{
		"addr": s.cfg.Server.Addr(),
	})

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("http server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}
