package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultSearchURL is the MDN search API endpoint.
const DefaultSearchURL = "https://developer.mozilla.org/api/v1/search"

type config struct {
	httpClient   *http.Client
	searchURL    string
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
		searchURL:    DefaultSearchURL,
		retryWaitMin: time.Second,
		retryWaitMax: 10 * time.Second,
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, fmt.Errorf("option %d failed: %s", i, err)
		}
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

// WithSearchURL sets the search API endpoint.
//
// Default is https://developer.mozilla.org/api/v1/search
func WithSearchURL(u string) Option {
	return func(cfg *config) error {
		cfg.searchURL = u
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
