package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
	"github.com/amhub/dataworld/pkg/logger"
)

// CatalogService owns the current catalog snapshot.
// Readers call Snapshot and keep the returned pointer for the whole request;
// reloads build a new snapshot and swap it in one step.
type CatalogService struct {
	source  ports.MaterialSource
	opts    domain.LoadOptions
	log     *logger.Logger
	current    atomic.Pointer[domain.Catalog]
	generation atomic.Uint64

	mu         sync.Mutex // serializes reloads
	lastReport *domain.LoadReport
	listeners  []func(*domain.Catalog)
}

// NewCatalogService creates a service that loads from source
func NewCatalogService(source ports.MaterialSource, opts domain.LoadOptions, log *logger.Logger) *CatalogService {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Source == "" {
		opts.Source = source.Describe()
	}
	return &CatalogService{
		source: source,
		opts:   opts,
		log:    log.With("component", "catalog", "source", opts.Source),
	}
}

// LoadResponse describes a completed (re)load
type LoadResponse struct {
	Catalog    *domain.Catalog
	Report     *domain.LoadReport
	Generation uint64
	Duration   time.Duration
}

// Load reads the source and installs a new snapshot.
// On failure the previous snapshot stays in place and the report (if any)
// is still returned so callers can show rejected records.
func (s *CatalogService) Load(ctx context.Context) (*LoadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	records, err := s.source.Load(ctx)
	if err != nil {
		s.log.Warn("catalog source unavailable", "error", err)
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	opts := s.opts
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	cat, report, err := domain.NewCatalog(records, opts)
	s.lastReport = report
	if err != nil {
		s.log.Warn("catalog rejected, keeping previous snapshot",
			"rejected", len(report.Rejected),
			"records", len(records),
		)
		return &LoadResponse{Report: report, Generation: s.generation.Load()}, err
	}

	s.current.Store(cat)
	gen := s.generation.Add(1)

	s.log.Info("catalog loaded",
		"materials", cat.Len(),
		"rejected", len(report.Rejected),
		"flags", len(report.Flags),
		"generation", gen,
	)

	for _, fn := range s.listeners {
		fn(cat)
	}

	return &LoadResponse{
		Catalog:    cat,
		Report:     report,
		Generation: gen,
		Duration:   time.Since(start),
	}, nil
}

// Reload is Load under the name used by watchers and signal handlers
func (s *CatalogService) Reload(ctx context.Context) (*LoadResponse, error) {
	return s.Load(ctx)
}

// Snapshot returns the current catalog, or nil before the first successful load
func (s *CatalogService) Snapshot() *domain.Catalog {
	return s.current.Load()
}

// MustSnapshot returns the current catalog or ErrCatalogNotLoaded
func (s *CatalogService) MustSnapshot() (*domain.Catalog, error) {
	cat := s.current.Load()
	if cat == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return cat, nil
}

// LastReport returns the report of the most recent load attempt
func (s *CatalogService) LastReport() *domain.LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// Generation counts successful loads
func (s *CatalogService) Generation() uint64 {
	return s.generation.Load()
}

// OnSwap registers fn to run after every successful snapshot swap
func (s *CatalogService) OnSwap(fn func(*domain.Catalog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Source describes where the catalog is loaded from
func (s *CatalogService) Source() string {
	return s.opts.Source
}
