package source

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultDocsURL is the MDN origin serving per-document index.json.
	DefaultDocsURL = "https://developer.mozilla.org"
	// DefaultBCDURL is the browser-compat-data API serving per-feature
	// support matrices.
	DefaultBCDURL = "https://bcd.developer.mozilla.org/bcd/api/v0/current"

	defaultRetryWaitMin = time.Second
	defaultRetryWaitMax = 10 * time.Second
)

type config struct {
	httpClient   *http.Client
	docsURL      string
	bcdURL       string
	header       http.Header
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
		docsURL:      DefaultDocsURL,
		bcdURL:       DefaultBCDURL,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, fmt.Errorf("option %d failed: %s", i, err)
		}
	}
	return cfg, nil
}

// WithClient sets the http client used for all requests.
func WithClient(c *http.Client) Option {
	return func(cfg *config) error {
		if c != nil {
			cfg.httpClient = c
		}
		return nil
	}
}

// WithDocsURL sets the origin that per-document metadata is fetched from.
//
// Default is https://developer.mozilla.org
func WithDocsURL(u string) Option {
	return func(cfg *config) error {
		cfg.docsURL = u
		return nil
	}
}

// WithBCDURL sets the base URL of the compatibility-matrix API.
func WithBCDURL(u string) Option {
	return func(cfg *config) error {
		cfg.bcdURL = u
		return nil
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(cfg *config) error {
		if cfg.header == nil {
			cfg.header = make(http.Header)
		}
		cfg.header.Add(key, value)
		return nil
	}
}

// WithRetry enables retrying failed requests up to max times, waiting between
// waitMin and waitMax between attempts. A max of 0 disables retries, which is
// the default.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(cfg *config) error {
		if max < 0 {
			return fmt.Errorf("retry max must not be negative: %d", max)
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
