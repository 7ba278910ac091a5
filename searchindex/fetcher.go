// Package searchindex fetches and caches the per-locale MDN search index.
//
// An index is cached per locale for the freshness duration. When fetching
// fails, the cached index is used no matter how old it is. Only when there
// is nothing cached is the failure returned.
package searchindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mdnkit/go-libmdn/internal/httpjson"
	"github.com/mdnkit/go-libmdn/kvstore"
	"github.com/mdnkit/go-libmdn/mdnpath"
	"github.com/mdnkit/go-libmdn/search/model"
	"golang.org/x/sync/singleflight"
)

var log = logging.Logger("searchindex")

type cachedIndex struct {
	FetchedAt int64             `json:"fetchedAt"`
	Items     []model.IndexItem `json:"items"`
}

// Fetcher gets search indexes.
type Fetcher struct {
	c         *httpjson.Client
	docsURL   string
	store     *kvstore.Store
	freshness time.Duration
	now       func() time.Time

	inFlight singleflight.Group
}

// New creates a new Fetcher.
func New(options ...Option) (*Fetcher, error) {
	opts, err := getOpts(options)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(opts.docsURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url must have http or https scheme: %s", opts.docsURL)
	}

	return &Fetcher{
		c: httpjson.New(opts.httpClient, nil, httpjson.Retry{
			Max:     opts.retryMax,
			WaitMin: opts.retryWaitMin,
			WaitMax: opts.retryWaitMax,
		}),
		docsURL:   strings.TrimRight(u.String(), "/"),
		store:     opts.store,
		freshness: opts.freshness,
		now:       opts.now,
	}, nil
}

// Fetch returns the search index for locale, which defaults to the default
// language. A fresh cached index is returned without fetching.
func (f *Fetcher) Fetch(ctx context.Context, locale string) ([]model.IndexItem, error) {
	return f.fetch(ctx, locale, false)
}

// Reload fetches the search index for locale even if the cached index is
// fresh. If fetching fails, the cached index is still returned.
func (f *Fetcher) Reload(ctx context.Context, locale string) ([]model.IndexItem, error) {
	return f.fetch(ctx, locale, true)
}

// Purge deletes all cached indexes.
func (f *Fetcher) Purge(ctx context.Context) (int, error) {
	return f.store.Purge(ctx)
}

func (f *Fetcher) fetch(ctx context.Context, locale string, force bool) ([]model.IndexItem, error) {
	if locale == "" {
		locale = string(mdnpath.DefaultLanguage)
	}

	cached := f.readCached(ctx, locale)
	if !force && cached != nil && f.now().Sub(time.UnixMilli(cached.FetchedAt)) < f.freshness {
		return cached.Items, nil
	}

	key := locale
	if force {
		key = "reload:" + locale
	}
	// Joined callers share the fetch, so it must not end with the first
	// caller's ctx.
	fetchCtx := context.WithoutCancel(ctx)
	ch := f.inFlight.DoChan(key, func() (any, error) {
		items, err := f.fetchRemote(fetchCtx, locale)
		if err != nil {
			return nil, err
		}
		entry := cachedIndex{
			FetchedAt: f.now().UnixMilli(),
			Items:     items,
		}
		if err = f.store.PutJSON(fetchCtx, locale, entry); err != nil {
			log.Errorw("Cannot persist search index", "locale", locale, "err", err)
		}
		return items, nil
	})

	var err error
	select {
	case res := <-ch:
		if res.Err == nil {
			return res.Val.([]model.IndexItem), nil
		}
		err = res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if cached != nil {
		log.Warnw("Cannot fetch search index, using cached index", "locale", locale, "err", err)
		return cached.Items, nil
	}
	return nil, err
}

func (f *Fetcher) readCached(ctx context.Context, locale string) *cachedIndex {
	var entry cachedIndex
	err := f.store.GetJSON(ctx, locale, &entry)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Warnw("Cannot read cached search index", "locale", locale, "err", err)
		}
		return nil
	}
	return &entry
}

type indexEntry struct {
	Title any `json:"title"`
	URL   any `json:"url"`
}

func (f *Fetcher) fetchRemote(ctx context.Context, locale string) ([]model.IndexItem, error) {
	u := f.docsURL + "/" + url.PathEscape(locale) + "/search-index.json"

	var payload json.RawMessage
	if err := f.c.Get(ctx, u, &payload); err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		log.Warnw("Search index is not a list", "url", u)
		return []model.IndexItem{}, nil
	}

	items := make([]model.IndexItem, 0, len(raws))
	for _, raw := range raws {
		var ent indexEntry
		if err := json.Unmarshal(raw, &ent); err != nil {
			continue
		}
		title, _ := ent.Title.(string)
		itemURL, _ := ent.URL.(string)
		if item, ok := model.NewIndexItem(title, itemURL); ok {
			items = append(items, item)
		}
	}
	log.Infow("Fetched search index", "locale", locale, "items", len(items))
	return items, nil
}
