// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/kdrama/internal/adapters/repository"
	"github.com/okian/kdrama/internal/domain/model"
	"github.com/okian/kdrama/internal/domain/ranking"
	"github.com/okian/kdrama/internal/domain/search"
	"github.com/okian/kdrama/internal/domain/types"
	"github.com/okian/kdrama/pkg/logger"
	"github.com/okian/kdrama/pkg/metrics"
)

// Defaults used when no option overrides them.
const (
	DefaultDatasetPath = "data/kdrama.csv"
	DefaultYearMin     = 2003
	DefaultYearMax     = 2022
	DefaultMaxLimit    = 100
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store *repository.DatasetStore

	// Configuration
	datasetPath        string
	delimiter          rune
	watch              bool
	watchDebounce      time.Duration
	topN               int
	maxLimit           int
	searchDefaultLimit int
	yearMin            int
	yearMax            int

	// State
	started     bool
	watchCancel context.CancelFunc
	watchDone   chan struct{}

	searches atomic.Int64
	rankings atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath sets the dataset file.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithDelimiter sets the dataset field delimiter.
func WithDelimiter(d rune) Option {
	return func(s *Service) {
		if d != 0 {
			s.delimiter = d
		}
	}
}

// WithWatch enables reloading the dataset when its file changes.
func WithWatch(enabled bool) Option {
	return func(s *Service) {
		s.watch = enabled
	}
}

// WithWatchDebounce sets the quiet period before a watched change reloads.
func WithWatchDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.watchDebounce = d
		}
	}
}

// WithTopN sets the default ranking size.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithMaxLimit caps the ranking size a caller may ask for.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithSearchDefaultLimit sets the number of rows shown for an empty search.
func WithSearchDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchDefaultLimit = n
		}
	}
}

// WithYearBounds sets the year range reported for an empty dataset.
func WithYearBounds(minYear, maxYear int) Option {
	return func(s *Service) {
		if minYear > 0 && maxYear >= minYear {
			s.yearMin = minYear
			s.yearMax = maxYear
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath:        DefaultDatasetPath,
		delimiter:          ',',
		topN:               ranking.DefaultLimit,
		maxLimit:           DefaultMaxLimit,
		searchDefaultLimit: search.DefaultLimit,
		yearMin:            DefaultYearMin,
		yearMax:            DefaultYearMax,
		logger:             nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.topN > s.maxLimit {
		s.topN = s.maxLimit
	}
	return s
}

// Start loads the dataset and, when enabled, starts watching it. A dataset
// that fails to load fails Start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...", logger.String("dataset", s.datasetPath))

	storeOpts := []repository.Option{
		repository.WithDelimiter(s.delimiter),
		repository.WithLogger(s.logger.Named("repository")),
	}
	if s.watchDebounce > 0 {
		storeOpts = append(storeOpts, repository.WithWatchDebounce(s.watchDebounce))
	}
	store := repository.NewDatasetStore(s.datasetPath, storeOpts...)
	if _, err := store.Load(ctx); err != nil {
		return fmt.Errorf("load dataset %s: %w", s.datasetPath, err)
	}
	s.store = store

	if s.watch {
		// The watcher outlives Start's ctx; Stop cancels it.
		watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.watchCancel = cancel
		s.watchDone = make(chan struct{})
		go func() {
			defer close(s.watchDone)
			if err := store.Watch(watchCtx); err != nil {
				s.logger.Error(watchCtx, "dataset watcher stopped", logger.Error(err))
			}
		}()
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("topN", s.topN),
		logger.Int("maxLimit", s.maxLimit),
		logger.Bool("watch", s.watch),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping dashboard service...")

	if s.watchCancel != nil {
		s.watchCancel()
		<-s.watchDone
		s.watchCancel = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) snapshot() (*model.Dataset, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, repository.ErrNotLoaded
	}
	return store.Snapshot()
}

// Reload re-reads the dataset. On failure the current snapshot stays.
func (s *Service) Reload(ctx context.Context) (repository.LoadReport, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return repository.LoadReport{}, repository.ErrNotLoaded
	}
	return store.Reload(ctx)
}

// Search runs a title search over the current snapshot.
func (s *Service) Search(ctx context.Context, query string) (search.Result, error) {
	start := time.Now()
	ds, err := s.snapshot()
	if err != nil {
		return search.Result{}, err
	}

	res, err := search.Search(ds, query, s.searchDefaultLimit)
	s.searches.Add(1)
	metrics.RecordSearch(string(res.Status), sinceMs(start))
	if s.logger != nil {
		s.logger.Debug(ctx, "search",
			logger.String("query", query),
			logger.String("status", string(res.Status)),
			logger.Int("rows", len(res.Rows)),
		)
	}
	return res, err
}

// Rank runs the ranking pipeline over the current snapshot. A zero limit
// selects the configured top N; larger limits are capped.
func (s *Service) Rank(ctx context.Context, q ranking.Query) (ranking.Ranking, error) {
	start := time.Now()
	ds, err := s.snapshot()
	if err != nil {
		return ranking.Ranking{}, err
	}

	if q.Limit <= 0 {
		q.Limit = s.topN
	}
	if q.Limit > s.maxLimit {
		q.Limit = s.maxLimit
	}

	rk, err := ranking.Rank(ds, q)
	s.rankings.Add(1)

	outcome := "ok"
	switch {
	case errors.Is(err, ranking.ErrMissingParameter):
		outcome = "idle"
	case errors.Is(err, ranking.ErrInvalidRange):
		outcome = "invalid_range"
	case err != nil:
		outcome = "error"
	case len(rk.Entries) == 0:
		outcome = "empty"
	}
	metrics.RecordRanking(q.Role.Key(), q.Metric.Key(), outcome, rk.Contributors, sinceMs(start))

	if s.logger != nil {
		s.logger.Debug(ctx, "ranking",
			logger.String("role", q.Role.Key()),
			logger.String("metric", q.Metric.Key()),
			logger.Int("yearMin", q.YearMin),
			logger.Int("yearMax", q.YearMax),
			logger.String("outcome", outcome),
			logger.Int("entries", len(rk.Entries)),
		)
	}
	return rk, err
}

// Meta describes the current snapshot.
func (s *Service) Meta(_ context.Context) (types.Meta, error) {
	ds, err := s.snapshot()
	if err != nil {
		return types.Meta{}, err
	}
	minYear, maxYear, ok := ds.YearBounds()
	if !ok {
		minYear, maxYear = s.yearMin, s.yearMax
	}
	return types.Meta{
		Title:              types.DashboardTitle,
		About:              types.AboutDataset,
		Source:             ds.Source(),
		Records:            ds.Len(),
		LoadedAt:           ds.LoadedAt(),
		YearMin:            minYear,
		YearMax:            maxYear,
		Roles:              types.RoleOptions(),
		Metrics:            types.MetricOptions(),
		TopN:               s.topN,
		MaxLimit:           s.maxLimit,
		SearchDefaultLimit: s.searchDefaultLimit,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"datasetPath": s.datasetPath,
		"watch":       s.watch,
		"topN":        s.topN,
		"maxLimit":    s.maxLimit,
		"searches":    s.searches.Load(),
		"rankings":    s.rankings.Load(),
	}

	if s.store != nil {
		report := s.store.Report()
		stats["records"] = report.Accepted
		stats["rows"] = report.Rows
		stats["quarantined"] = report.Quarantined
		stats["loads"] = s.store.Loads()
		stats["failedLoads"] = s.store.FailedLoads()
		if ds, err := s.store.Snapshot(); err == nil {
			stats["loadedAt"] = ds.LoadedAt()
		}
	}

	return stats
}

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
