package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/logger"
)

// Config wires the server to the catalog services
type Config struct {
	Catalog  *services.CatalogService
	Requests *services.RequestService
	Websites services.WebsiteDirectory
	Log      *logger.Logger
	// ValidOnlyDefault applies to /v1/materials when valid_only is not given
	ValidOnlyDefault bool
	// HorizonDays is the /v1/stats expiry window when horizon_days is not given
	HorizonDays int
	// Today overrides the current date, for tests
	Today func() time.Time
}

// Server holds the state for the REST API server.
type Server struct {
	cfg     Config
	filter  *services.FilterService
	metrics *Metrics
	router  *gin.Engine
	log     *logger.Logger
}

// NewServer creates a new Server instance.
func NewServer(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = logger.NewNop()
	}
	if cfg.Today == nil {
		cfg.Today = time.Now
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 90
	}

	r := gin.New()
	s := &Server{
		cfg:     cfg,
		filter:  services.NewFilterService(cfg.Catalog),
		metrics: NewMetrics(),
		router:  r,
		log:     cfg.Log.With("component", "server"),
	}

	if cat := cfg.Catalog.Snapshot(); cat != nil {
		s.metrics.ObserveSwap(cat)
	}
	cfg.Catalog.OnSwap(s.metrics.ObserveSwap)

	r.Use(gin.Recovery(), s.requestLogger(), s.metrics.Middleware())
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if s.cfg.Requests != nil {
			s.cfg.Requests.Wait()
		}
		return nil
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/v1")
	{
		v1.GET("/materials", s.handleMaterials)
		v1.GET("/materials/:product", s.handleMaterial)
		v1.GET("/manufacturers", s.handleManufacturers)
		v1.GET("/certifications", s.handleCertifications)
		v1.GET("/facets", s.handleFacets)
		v1.GET("/stats", s.handleStats)
		v1.POST("/requests", s.handleRequest)
		v1.POST("/contact", s.handleContact)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			s.log.Error("HTTP request", fields...)
		case status >= 400:
			s.log.Warn("HTTP request", fields...)
		default:
			s.log.Info("HTTP request", fields...)
		}
	}
}
