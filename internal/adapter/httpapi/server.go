// Package httpapi exposes the draft and report operations over HTTP.
//
// The mobile client drives one draft session per report: it opens a draft,
// streams in the device position fix, optionally requests the address and
// weather enrichments, attaches the captured photo, and submits. The report
// routes serve the synced list with facet filtering and sorting, and apply
// state toggles and deletions remote-first.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/observability"
	"github.com/roadscout/report-service/internal/submit"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Deps are the collaborators the API serves. Geocoder, Weather, Analyzer,
// Events, Redis, and Ready may be nil; the corresponding feature degrades
// or is skipped.
type Deps struct {
	Store    domain.ReportStore
	Reports  *domain.Collection
	Geocoder domain.Geocoder
	Weather  domain.WeatherProvider
	Analyzer domain.ImageAnalyzer
	Events   domain.ReportPublisher
	Redis    *redis.Client
	Ready    ReadinessChecker
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Options tune listener address, the position fix policy handed to each
// draft, and the submission rate limit.
type Options struct {
	Addr             string
	LocationTimeout  time.Duration
	LocationMaxAge   time.Duration
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// Server exposes the report API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	deps       Deps
	opts       Options

	mu     sync.Mutex
	drafts map[string]*draftSession
}

type draftSession struct {
	orch    *submit.Orchestrator
	locator *deviceLocator
}

// NewServer builds the router and wires all routes.
func NewServer(deps Deps, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		deps:   deps,
		opts:   opts,
		drafts: make(map[string]*draftSession),
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")

	drafts := api.Group("/drafts")
	drafts.POST("", s.createDraft)
	drafts.GET("/:id", s.getDraft)
	drafts.POST("/:id/location", s.reportPosition)
	drafts.POST("/:id/address", s.fetchAddress)
	drafts.POST("/:id/weather", s.fetchWeather)
	drafts.PUT("/:id/photo", s.attachPhoto)
	drafts.DELETE("/:id/photo", s.removePhoto)
	drafts.POST("/:id/submit",
		submitRateLimiter(deps.Redis, opts.SubmitRateLimit, opts.SubmitRateWindow, deps.Logger),
		s.submitDraft)
	drafts.DELETE("/:id", s.cancelDraft)

	reports := api.Group("/reports")
	reports.GET("", s.listReports)
	reports.POST("/refresh", s.refreshReports)
	reports.POST("/:id/toggle", s.toggleReport)
	reports.DELETE("/:id", s.deleteReport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.deps.Logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.deps.Ready == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.deps.Ready.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
