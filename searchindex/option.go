package searchindex

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/mdnkit/go-libmdn/kvstore"
	"github.com/mdnkit/go-libmdn/mdnpath"
)

// DefaultFreshness is how long a fetched index is used without refetching.
const DefaultFreshness = 24 * time.Hour

type config struct {
	httpClient   *http.Client
	docsURL      string
	freshness    time.Duration
	now          func() time.Time
	store        *kvstore.Store
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// Option is a function that sets a value in a config.
type Option func(*config) error

// getOpts creates a config and applies Options to it.
func getOpts(opts []Option) (config, error) {
	cfg := config{
		httpClient:   http.DefaultClient,
		docsURL:      mdnpath.BaseURL,
		freshness:    DefaultFreshness,
		now:          time.Now,
		retryWaitMin: time.Second,
		retryWaitMax: 10 * time.Second,
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, fmt.Errorf("option %d failed: %s", i, err)
		}
	}
	if cfg.store == nil {
		cfg.store = kvstore.New(dssync.MutexWrap(datastore.NewMapDatastore()), kvstore.SearchIndexNamespace)
	}
	return cfg, nil
}

// WithClient allows creation of the http client using an underlying network
// round tripper / client.
func WithClient(c *http.Client) Option {
	return func(cfg *config) error {
		if c != nil {
			cfg.httpClient = c
		}
		return nil
	}
}

// WithDocsURL sets the origin that search indexes are fetched from.
//
// Default is https://developer.mozilla.org
func WithDocsURL(u string) Option {
	return func(cfg *config) error {
		cfg.docsURL = u
		return nil
	}
}

// WithFreshness sets how long a fetched index is used without refetching.
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

// WithStore sets where fetched indexes are persisted.
func WithStore(store *kvstore.Store) Option {
	return func(cfg *config) error {
		cfg.store = store
		return nil
	}
}

// WithRetry retries failed requests up to max times, waiting between waitMin
// and waitMax between attempts. A max of 0 disables retries.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(cfg *config) error {
		if max < 0 {
			return errors.New("retry max cannot be negative")
		}
		cfg.retryMax = max
		if waitMin != 0 {
			cfg.retryWaitMin = waitMin
		}
		if waitMax != 0 {
			cfg.retryWaitMax = waitMax
		}
		return nil
	}
}
