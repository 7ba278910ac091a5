package searchindex_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/mdnkit/go-libmdn/internal/test"
	"github.com/mdnkit/go-libmdn/kvstore"
	"github.com/mdnkit/go-libmdn/search/model"
	"github.com/mdnkit/go-libmdn/searchindex"
	"github.com/stretchr/testify/require"
)

const indexPath = "/en-US/search-index.json"

const indexBody = `[
  {"title": "Fetch API", "url": "/en-US/docs/Web/API/Fetch_API"},
  {"title": " CSS grid layout ", "url": "en-US/docs/Web/CSS/CSS_grid_layout"},
  {"title": "", "url": "/en-US/docs/Empty"},
  {"title": "No URL"},
  {"title": 7, "url": "/en-US/docs/Number"},
  "junk"
]`

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newFetcher(t *testing.T, srv *test.MDNServer, clk *clock, store *kvstore.Store) *searchindex.Fetcher {
	f, err := searchindex.New(
		searchindex.WithDocsURL(srv.URL),
		searchindex.WithClock(clk.now),
		searchindex.WithStore(store),
	)
	require.NoError(t, err)
	return f
}

func newStore() *kvstore.Store {
	return kvstore.New(dssync.MutexWrap(datastore.NewMapDatastore()), kvstore.SearchIndexNamespace)
}

func TestFetch(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	f := newFetcher(t, srv, newClock(), newStore())

	items, err := f.Fetch(context.Background(), "en-US")
	require.NoError(t, err)
	require.Equal(t, []model.IndexItem{
		{Title: "Fetch API", URL: "/en-US/docs/Web/API/Fetch_API"},
		{Title: "CSS grid layout", URL: "/en-US/docs/Web/CSS/CSS_grid_layout"},
	}, items)
}

func TestFetchDefaultLocale(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	f := newFetcher(t, srv, newClock(), newStore())

	items, err := f.Fetch(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, srv.Hits(indexPath))
}

func TestFetchFreshCached(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	clk := newClock()
	store := newStore()
	f := newFetcher(t, srv, clk, store)
	ctx := context.Background()

	_, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)

	clk.advance(23 * time.Hour)
	items, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, srv.Hits(indexPath))

	// A new fetcher over the same store sees the persisted index.
	f2 := newFetcher(t, srv, clk, store)
	items, err = f2.Fetch(ctx, "en-US")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, srv.Hits(indexPath))
}

func TestFetchStaleRefetched(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	clk := newClock()
	f := newFetcher(t, srv, clk, newStore())
	ctx := context.Background()

	_, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)

	srv.SetIndex("en-US", `[{"title": "Only", "url": "/en-US/docs/Only"}]`)
	clk.advance(25 * time.Hour)
	items, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)
	require.Equal(t, []model.IndexItem{{Title: "Only", URL: "/en-US/docs/Only"}}, items)
	require.Equal(t, 2, srv.Hits(indexPath))
}

func TestFetchFailureUsesCached(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	clk := newClock()
	f := newFetcher(t, srv, clk, newStore())
	ctx := context.Background()

	_, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)

	srv.SetStatus(indexPath, http.StatusServiceUnavailable)
	clk.advance(30 * 24 * time.Hour)
	items, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 2, srv.Hits(indexPath))
}

func TestFetchFailureNothingCached(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetStatus(indexPath, http.StatusInternalServerError)
	f := newFetcher(t, srv, newClock(), newStore())

	_, err := f.Fetch(context.Background(), "en-US")
	require.Error(t, err)

	// Nothing was cached, so the next call fetches again.
	_, err = f.Fetch(context.Background(), "en-US")
	require.Error(t, err)
	require.Equal(t, 2, srv.Hits(indexPath))
}

func TestFetchCorruptCachedPurged(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	store := newStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "en-US", []byte("{not json")))

	f := newFetcher(t, srv, newClock(), store)
	items, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, srv.Hits(indexPath))

	n, err := store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestFetchNotAList(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("fr", `{"items": []}`)
	f := newFetcher(t, srv, newClock(), newStore())

	items, err := f.Fetch(context.Background(), "fr")
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestFetchSharedNotCanceledByFirstCaller(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	srv.Hold()
	defer srv.Release()
	f := newFetcher(t, srv, newClock(), newStore())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.Fetch(ctx, "en-US")
		firstErr <- err
	}()
	require.Eventually(t, func() bool {
		return srv.Hits(indexPath) == 1
	}, 5*time.Second, 5*time.Millisecond)

	type result struct {
		items []model.IndexItem
		err   error
	}
	second := make(chan result, 1)
	go func() {
		items, err := f.Fetch(context.Background(), "en-US")
		second <- result{items, err}
	}()
	// Let the second caller join the held fetch.
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("canceled caller did not return")
	}

	srv.Release()
	select {
	case res := <-second:
		require.NoError(t, res.err)
		require.Len(t, res.items, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("joined caller did not return")
	}
	require.Equal(t, 1, srv.Hits(indexPath))

	// The shared fetch was persisted.
	items, err := f.Fetch(context.Background(), "en-US")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, srv.Hits(indexPath))
}

func TestReload(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	f := newFetcher(t, srv, newClock(), newStore())
	ctx := context.Background()

	_, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)

	srv.SetIndex("en-US", `[]`)
	items, err := f.Reload(ctx, "en-US")
	require.NoError(t, err)
	require.Empty(t, items)
	require.Equal(t, 2, srv.Hits(indexPath))

	// Reload falls back to the cached index when fetching fails.
	srv.SetStatus(indexPath, http.StatusBadGateway)
	items, err = f.Reload(ctx, "en-US")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestPurge(t *testing.T) {
	srv := test.NewMDNServer(t)
	srv.SetIndex("en-US", indexBody)
	srv.SetIndex("de", indexBody)
	f := newFetcher(t, srv, newClock(), newStore())
	ctx := context.Background()

	_, err := f.Fetch(ctx, "en-US")
	require.NoError(t, err)
	_, err = f.Fetch(ctx, "de")
	require.NoError(t, err)

	n, err := f.Purge(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = f.Fetch(ctx, "en-US")
	require.NoError(t, err)
	require.Equal(t, 2, srv.Hits(indexPath))
}

func TestNew(t *testing.T) {
	_, err := searchindex.New(searchindex.WithDocsURL("file:///tmp"))
	require.Error(t, err)
	_, err = searchindex.New(searchindex.WithFreshness(0))
	require.Error(t, err)
	_, err = searchindex.New(searchindex.WithRetry(-1, 0, 0))
	require.Error(t, err)
	f, err := searchindex.New()
	require.NoError(t, err)
	require.NotNil(t, f)
}
