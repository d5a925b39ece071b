package repository

import (
	"time"

	"github.com/okian/kdrama/pkg/logger"
)

const (
	defaultDelimiter = ','
	defaultDebounce  = 250 * time.Millisecond
)

// Option applies a configuration option to the DatasetStore.
type Option func(*DatasetStore)

// WithDelimiter sets the field delimiter of the dataset file.
func WithDelimiter(d rune) Option {
	return func(s *DatasetStore) {
		if d != 0 {
			s.delimiter = d
		}
	}
}

// WithLogger sets the logger used for load warnings and watch events.
func WithLogger(l logger.Logger) Option {
	return func(s *DatasetStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithWatchDebounce sets how long Watch waits after the last file event
// before reloading.
func WithWatchDebounce(d time.Duration) Option {
	return func(s *DatasetStore) {
		if d > 0 {
			s.debounce = d
		}
	}
}
