package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/kdrama/internal/domain/model"
	"github.com/okian/kdrama/pkg/logger"
	"github.com/okian/kdrama/pkg/metrics"
)

// DatasetStore holds the active dataset snapshot. Readers get an immutable
// *model.Dataset; reloads build a new one and swap it in atomically.
type DatasetStore struct {
	path      string
	delimiter rune
	debounce  time.Duration
	log       logger.Logger

	current atomic.Pointer[model.Dataset]
	report  atomic.Pointer[LoadReport]
	reloads atomic.Int64
	failed  atomic.Int64

	mu sync.Mutex // serialises loads
}

// NewDatasetStore creates a store for the dataset at path. Nothing is read
// until Load is called.
func NewDatasetStore(path string, opts ...Option) *DatasetStore {
	s := &DatasetStore{
		path:      path,
		delimiter: defaultDelimiter,
		debounce:  defaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the dataset file path.
func (s *DatasetStore) Path() string { return s.path }

// Load reads the dataset and installs the first snapshot.
func (s *DatasetStore) Load(ctx context.Context) (LoadReport, error) {
	return s.load(ctx, "load")
}

// Reload reads the dataset again. The current snapshot is replaced only when
// the new one loads without error.
func (s *DatasetStore) Reload(ctx context.Context) (LoadReport, error) {
	return s.load(ctx, "reload")
}

func (s *DatasetStore) load(ctx context.Context, op string) (LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	ds, report, err := ReadFile(ctx, s.path, s.delimiter)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		s.failed.Add(1)
		metrics.RecordDatasetLoad(false, 0, 0, 0, elapsed)
		metrics.RecordError("repository", "", "", op, "error", elapsed)
		return report, err
	}

	minYear, maxYear, _ := ds.YearBounds()
	s.current.Store(ds)
	s.report.Store(&report)
	s.reloads.Add(1)

	metrics.RecordDatasetLoad(true, ds.Len(), minYear, maxYear, elapsed)
	for _, f := range report.Fields() {
		metrics.RecordDatasetQuarantined(f, report.Quarantined[f])
	}

	if s.log != nil {
		// One warning per malformed field type.
		for _, f := range report.Fields() {
			s.log.Warn(ctx, "quarantined malformed rows",
				logger.String("field", f),
				logger.Int("rows", report.Quarantined[f]),
				logger.String("path", s.path))
		}
		s.log.Info(ctx, "dataset "+op+"ed",
			logger.String("path", s.path),
			logger.Int("records", ds.Len()),
			logger.Int("quarantined", report.QuarantinedRows()),
			logger.Duration("took", time.Since(start)))
	}
	return report, nil
}

// Snapshot returns the active dataset or ErrNotLoaded.
func (s *DatasetStore) Snapshot() (*model.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

// Report returns the report of the last successful load.
func (s *DatasetStore) Report() LoadReport {
	if r := s.report.Load(); r != nil {
		return *r
	}
	return LoadReport{Source: s.path}
}

// Loads returns the number of successful loads.
func (s *DatasetStore) Loads() int64 { return s.reloads.Load() }

// FailedLoads returns the number of failed loads.
func (s *DatasetStore) FailedLoads() int64 { return s.failed.Load() }
