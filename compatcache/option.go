package compatcache

import (
	"errors"
	"fmt"
	"time"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/mdnkit/go-libmdn/kvstore"
)

// DefaultFreshness is how long a fetched entry is answered without
// refetching.
const DefaultFreshness = 24 * time.Hour

type config struct {
	freshness time.Duration
	now       func() time.Time
	store     *kvstore.Store
}

// Option is a function that sets a value in a config.
type Option func(*config) error

// getOpts creates a config and applies Options to it.
func getOpts(opts []Option) (config, error) {
	cfg := config{
		freshness: DefaultFreshness,
		now:       time.Now,
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, fmt.Errorf("option %d failed: %s", i, err)
		}
	}
	if cfg.store == nil {
		cfg.store = kvstore.New(dssync.MutexWrap(datastore.NewMapDatastore()), kvstore.CompatNamespace)
	}
	return cfg, nil
}

// WithFreshness sets how long an entry stays fresh after it is fetched.
//
// Default is 24 hours.
func WithFreshness(d time.Duration) Option {
	return func(cfg *config) error {
		if d <= 0 {
			return errors.New("freshness must be positive")
		}
		cfg.freshness = d
		return nil
	}
}

// WithClock sets the function used to get the current time.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) error {
		if now != nil {
			cfg.now = now
		}
		return nil
	}
}

// WithStore sets the persistent tier. If not set, entries are persisted
// only in an in-memory datastore that lives as long as the cache.
func WithStore(store *kvstore.Store) Option {
	return func(cfg *config) error {
		cfg.store = store
		return nil
	}
}
