package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/mdnkit/go-libmdn/compat/source"
	"github.com/mdnkit/go-libmdn/compatcache"
	"github.com/mdnkit/go-libmdn/kvstore"
	"github.com/mdnkit/go-libmdn/kvstore/sqlds"
	"github.com/mdnkit/go-libmdn/search/client"
	"github.com/mdnkit/go-libmdn/searchindex"
)

const (
	cacheFile = "cache.db"
	userAgent = "mdncompat"
)

// session holds everything one command invocation works with. All caches
// share one datastore.
type session struct {
	ds     datastore.Datastore
	compat *compatcache.Cache
	index  *searchindex.Fetcher
	search *client.Client
}

func openDatastore(cacheDir string) (datastore.Datastore, error) {
	if cacheDir == "" {
		return dssync.MutexWrap(datastore.NewMapDatastore()), nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory: %w", err)
	}
	return sqlds.Open(filepath.Join(cacheDir, cacheFile))
}

func newSession(cfg *Config) (*session, error) {
	ds, err := openDatastore(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	src, err := source.NewHTTPSource(
		source.WithDocsURL(cfg.DocsURL),
		source.WithBCDURL(cfg.BCDURL),
		source.WithRetry(cfg.HTTPRetries, 0, 0),
		source.WithHeader("User-Agent", userAgent),
	)
	if err != nil {
		ds.Close()
		return nil, err
	}
	cache, err := compatcache.New(src, compatcache.WithStore(kvstore.New(ds, kvstore.CompatNamespace)))
	if err != nil {
		ds.Close()
		return nil, err
	}

	index, err := searchindex.New(
		searchindex.WithDocsURL(cfg.DocsURL),
		searchindex.WithStore(kvstore.New(ds, kvstore.SearchIndexNamespace)),
		searchindex.WithRetry(cfg.HTTPRetries, 0, 0),
	)
	if err != nil {
		ds.Close()
		return nil, err
	}

	search, err := client.New(
		client.WithSearchURL(cfg.SearchURL),
		client.WithRetry(cfg.HTTPRetries, 0, 0),
	)
	if err != nil {
		ds.Close()
		return nil, err
	}

	return &session{
		ds:     ds,
		compat: cache,
		index:  index,
		search: search,
	}, nil
}

func (s *session) Close() error {
	return s.ds.Close()
}
