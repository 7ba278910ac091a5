package compatcache

import (
	"context"
	"errors"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mdnkit/go-libmdn/apierror"
	"github.com/mdnkit/go-libmdn/compat/model"
	"github.com/mdnkit/go-libmdn/compat/source"
	"github.com/mdnkit/go-libmdn/kvstore"
	"github.com/mdnkit/go-libmdn/mdnpath"
	"golang.org/x/sync/singleflight"
)

var log = logging.Logger("compatcache")

// persistedEntry is the JSON envelope stored in the persistent tier.
type persistedEntry struct {
	FetchedAt int64         `json:"fetchedAt"`
	Value     *model.Record `json:"value"`
}

// Cache is a two-tier compatibility resolution cache with in-flight
// de-duplication. One Cache is shared by everything in a session that needs
// compatibility data.
type Cache struct {
	src       source.Source
	store     *kvstore.Store
	freshness time.Duration
	now       func() time.Time

	memory   memoryTier
	inFlight singleflight.Group
}

// New creates a new Cache that fetches missing data from src.
func New(src source.Source, options ...Option) (*Cache, error) {
	if src == nil {
		return nil, errors.New("no compatibility source")
	}
	opts, err := getOpts(options)
	if err != nil {
		return nil, err
	}
	return &Cache{
		src:       src,
		store:     opts.store,
		freshness: opts.freshness,
		now:       opts.now,
	}, nil
}

// Resolve returns the compatibility data for the document identified by
// key, which may be a path or a URL. The answer is resolved to a record, or
// to "no data" when the document has none or cannot be fetched and nothing
// is cached.
//
// Resolve is unresolved only if ctx ends before an answer is available. The
// fetch that was started continues in the background and its result is
// cached.
func (c *Cache) Resolve(ctx context.Context, key string) model.Resolution {
	docPath := mdnpath.ToPath(key)

	if rec, ok := c.peek(ctx, docPath); ok {
		return model.Resolved(rec)
	}

	// The fetch is shared by every caller for this path, so it must not
	// be canceled by the first caller leaving.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.inFlight.DoChan(docPath, func() (any, error) {
		return c.refresh(fetchCtx, docPath), nil
	})

	select {
	case res := <-ch:
		rec, _ := res.Val.(*model.Record)
		return model.Resolved(rec)
	case <-ctx.Done():
		log.Debugw("Gave up waiting for compatibility data", "path", docPath, "err", ctx.Err())
		return model.Unresolved()
	}
}

// Peek returns the fresh cached answer for key without fetching. A fresh
// persistent entry is promoted into memory. If nothing fresh is cached the
// answer is unresolved.
func (c *Cache) Peek(ctx context.Context, key string) model.Resolution {
	if rec, ok := c.peek(ctx, mdnpath.ToPath(key)); ok {
		return model.Resolved(rec)
	}
	return model.Unresolved()
}

// Len returns the number of entries in the memory tier.
func (c *Cache) Len() int {
	return c.memory.len()
}

// Purge empties both tiers and returns the number of persisted entries
// deleted.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	c.memory.clear()
	return c.store.Purge(ctx)
}

func (c *Cache) peek(ctx context.Context, docPath string) (*model.Record, bool) {
	if e, ok := c.memory.get(docPath); ok && c.isFresh(e) {
		return e.record, true
	}
	if e := c.readPersisted(ctx, docPath); e != nil && c.isFresh(e) {
		c.memory.put(docPath, e)
		return e.record, true
	}
	return nil, false
}

// refresh runs once per in-flight fetch of docPath.
func (c *Cache) refresh(ctx context.Context, docPath string) *model.Record {
	// An earlier fetch may have completed since the caller looked.
	if e, ok := c.memory.get(docPath); ok && c.isFresh(e) {
		return e.record
	}

	stale := c.readPersisted(ctx, docPath)
	if stale != nil && c.isFresh(stale) {
		c.memory.put(docPath, stale)
		return stale.record
	}

	rec, err := c.src.Fetch(ctx, docPath)
	if err == nil {
		e := &entry{
			fetchedAt: c.now(),
			record:    rec.Decorate(),
		}
		c.memory.put(docPath, e)
		c.writePersisted(ctx, docPath, e)
		return e.record
	}

	if stale != nil {
		log.Infow("Cannot fetch compatibility data, using stale entry", "path", docPath, "fetchedAt", stale.fetchedAt, "err", err, "source", c.src)
		c.memory.put(docPath, stale)
		return stale.record
	}

	if apierror.IsNotFound(err) {
		log.Debugw("No document, caching no data", "path", docPath, "source", c.src)
	} else {
		log.Infow("Cannot fetch compatibility data, caching no data", "path", docPath, "err", err, "source", c.src)
	}
	e := &entry{fetchedAt: c.now()}
	c.memory.put(docPath, e)
	c.writePersisted(ctx, docPath, e)
	return nil
}

func (c *Cache) isFresh(e *entry) bool {
	return c.now().Sub(e.fetchedAt) < c.freshness
}

// readPersisted returns the persisted entry for docPath, or nil if there is
// none or it is corrupt.
func (c *Cache) readPersisted(ctx context.Context, docPath string) *entry {
	var pe persistedEntry
	err := c.store.GetJSON(ctx, docPath, &pe)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Warnw("Cannot read persisted compatibility data", "path", docPath, "err", err)
		}
		return nil
	}
	return &entry{
		fetchedAt: time.UnixMilli(pe.FetchedAt),
		record:    pe.Value.Decorate(),
	}
}

func (c *Cache) writePersisted(ctx context.Context, docPath string, e *entry) {
	pe := persistedEntry{
		FetchedAt: e.fetchedAt.UnixMilli(),
		Value:     e.record,
	}
	if err := c.store.PutJSON(ctx, docPath, pe); err != nil {
		log.Errorw("Cannot persist compatibility data", "path", docPath, "err", err)
	}
}
