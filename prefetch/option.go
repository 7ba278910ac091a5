package prefetch

import (
	"errors"
	"fmt"
)

const (
	defaultVisibleLimit = 10
	defaultBatchSize    = 4
)

type config struct {
	visibleLimit int
	batchSize    int
}

// Option is a function that sets a value in a config.
type Option func(*config) error

// getOpts creates a config and applies Options to it.
func getOpts(opts []Option) (config, error) {
	cfg := config{
		visibleLimit: defaultVisibleLimit,
		batchSize:    defaultBatchSize,
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, fmt.Errorf("option %d failed: %s", i, err)
		}
	}
	return cfg, nil
}

// WithVisibleLimit sets how many of the leading visible results are
// prefetched.
//
// Default is 10.
func WithVisibleLimit(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return errors.New("visible limit must be at least 1")
		}
		cfg.visibleLimit = n
		return nil
	}
}

// WithBatchSize sets how many visible results are resolved concurrently.
//
// Default is 4.
func WithBatchSize(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return errors.New("batch size must be at least 1")
		}
		cfg.batchSize = n
		return nil
	}
}
