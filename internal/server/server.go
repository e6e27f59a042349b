// Package server exposes plan analysis over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/picklr-io/planrisk/internal/engine"
	"github.com/picklr-io/planrisk/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultMaxBodyBytes caps analyze request bodies when Config leaves it unset.
	DefaultMaxBodyBytes = 10 << 20
	shutdownTimeout     = 10 * time.Second
)

// Config holds HTTP server settings.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	// RateLimit caps analyze requests per second. Zero disables the limit.
	RateLimit float64
}

// Server serves the analysis API. The engine is shared read-only by all
// request handlers.
type Server struct {
	engine  *engine.Engine
	cfg     Config
	limiter *rate.Limiter
	router  *gin.Engine
}

// New builds a Server with its routes registered. Zero limits take defaults.
func New(eng *engine.Engine, cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		engine: eng,
		cfg:    cfg,
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.GET("/pricing", s.handlePricing)

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logging.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", c.Writer.Header().Get("X-Request-ID"),
			"duration", time.Since(start),
		)
	}
}
