package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/mdnkit/go-libmdn/compat/source"
	"github.com/mdnkit/go-libmdn/mdnpath"
	"github.com/mdnkit/go-libmdn/search/client"
)

// Config is the command configuration read from the environment. Command
// line flags override it.
type Config struct {
	DocsURL     string `env:"MDNCOMPAT_DOCS_URL"`
	BCDURL      string `env:"MDNCOMPAT_BCD_URL"`
	SearchURL   string `env:"MDNCOMPAT_SEARCH_URL"`
	CacheDir    string `env:"MDNCOMPAT_CACHE_DIR"`
	Language    string `env:"MDNCOMPAT_LANGUAGE"`
	HTTPRetries int    `env:"MDNCOMPAT_HTTP_RETRIES" envDefault:"2"`
	LogLevel    string `env:"MDNCOMPAT_LOG_LEVEL" envDefault:"warn"`

	// Locale preferences used when Language is not set.
	LCAll string `env:"LC_ALL"`
	Lang  string `env:"LANG"`
}

// ParseConfig reads Config from environ, or from the process environment if
// environ is nil. Unset URLs get the public MDN endpoints and an unset
// language is matched from the locale preferences.
func ParseConfig(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DocsURL == "" {
		cfg.DocsURL = source.DefaultDocsURL
	}
	if cfg.BCDURL == "" {
		cfg.BCDURL = source.DefaultBCDURL
	}
	if cfg.SearchURL == "" {
		cfg.SearchURL = client.DefaultSearchURL
	}
	if cfg.HTTPRetries < 0 {
		return Config{}, fmt.Errorf("MDNCOMPAT_HTTP_RETRIES cannot be negative: %d", cfg.HTTPRetries)
	}
	cfg.Language = string(mdnpath.MatchLanguage(cfg.Language, cfg.LCAll, cfg.Lang))
	return cfg, nil
}
