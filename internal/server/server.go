// Package server exposes one console session over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"acquisition-console/internal/common/config"
	httpclient "acquisition-console/internal/common/http"
	"acquisition-console/internal/common/logger"
	"acquisition-console/internal/models"
	"acquisition-console/internal/normalize"
	"acquisition-console/internal/view"
	"acquisition-console/pkg/registry"
)

// Lookup is the silent-degrading lookup service.
type Lookup interface {
	Competitors(ctx context.Context, company, industry string) []models.Competitor
	AcquisitionTargets(ctx context.Context, acquirer string) []models.Acquisition
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Controller *view.Controller
	Lookup     Lookup
	Catalog    *registry.FacetCatalog
	Normalizer *normalize.Normalizer
	Checks     map[string]HealthCheck
	Logger     logger.Logger
}

type Server struct {
	router  *gin.Engine
	handler *Handler
	checks  map[string]HealthCheck
	logger  logger.Logger
	http    *http.Server
}

func New(cfg config.ServerConfig, deps Deps) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}

	s := &Server{
		router:  gin.New(),
		handler: NewHandler(deps),
		checks:  deps.Checks,
		logger:  logger.Component(deps.Logger, "server"),
	}
	s.setupRoutes()
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestLogger(), cors())

	api := s.router.Group("/api")
	s.handler.RegisterRoutes(api)

	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// ServeHTTP lets tests drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then drains for up to 30s.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("console listening", map[string]interface{}{"address": s.http.Addr})
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.logger.Info("shutting down console", nil)
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}
	for name, check := range s.checks {
		if err := check(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"dependencies": deps,
		"time":         time.Now().Format(time.RFC3339),
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(httpclient.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(httpclient.RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		s.logger.Debug("request handled", map[string]interface{}{
			"requestId":  requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+httpclient.RequestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
