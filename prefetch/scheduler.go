// Package prefetch warms the compatibility cache for the results a user can
// see and the result they have selected, and collects the resolved data for
// display.
//
// The leading visible results are resolved in fixed-size batches, in order,
// with one batch outstanding at a time. The selected result is resolved on
// its own, immediately. Each call to SetVisible or Select supersedes the
// previous call of the same kind: work already started is allowed to finish,
// and so still populates the cache, but its results are no longer applied.
package prefetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gammazero/channelqueue"
	logging "github.com/ipfs/go-log/v2"
	"github.com/mdnkit/go-libmdn/compat/model"
	"github.com/mdnkit/go-libmdn/mdnpath"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("prefetch")

// Resolver is the compatibility cache as seen by the Scheduler.
// *compatcache.Cache implements it.
type Resolver interface {
	// Resolve returns the compatibility data for a document, fetching it
	// if necessary.
	Resolve(ctx context.Context, key string) model.Resolution
	// Peek returns cached compatibility data without fetching.
	Peek(ctx context.Context, key string) model.Resolution
}

// Update is a resolution applied to the Scheduler's state. A nil Record
// means the document has no compatibility data.
type Update struct {
	Path   string
	Record *model.Record
}

// Scheduler schedules compatibility lookups for visible and selected
// results and keeps the data resolved for them.
type Scheduler struct {
	resolver     Resolver
	visibleLimit int
	batchSize    int

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	state         map[string]*model.Record
	visibleCancel *atomic.Bool
	selectCancel  *atomic.Bool
	closed        bool

	wg      sync.WaitGroup
	updates *channelqueue.ChannelQueue[Update]
}

// New creates a new Scheduler that resolves through resolver.
func New(resolver Resolver, options ...Option) (*Scheduler, error) {
	if resolver == nil {
		return nil, errors.New("no resolver")
	}
	opts, err := getOpts(options)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		resolver:     resolver,
		visibleLimit: opts.visibleLimit,
		batchSize:    opts.batchSize,
		ctx:          ctx,
		cancel:       cancel,
		state:        make(map[string]*model.Record),
		updates:      channelqueue.New[Update](-1),
	}, nil
}

// SetVisible sets the ordered list of visible results, as document paths or
// URLs. Results that are already applied are skipped. Results already in the
// cache are applied before SetVisible returns. The rest are resolved in the
// background.
//
// The returned channel is closed when the work for this call is finished.
func (s *Scheduler) SetVisible(paths []string) <-chan struct{} {
	done := make(chan struct{})
	cancelled, ok := s.begin(&s.visibleCancel)
	if !ok {
		close(done)
		return done
	}

	var pending []string
	var immediate []Update
	for _, p := range s.leading(paths) {
		if s.applied(p) {
			continue
		}
		if res := s.resolver.Peek(s.ctx, p); res.IsResolved() {
			immediate = append(immediate, Update{Path: p, Record: res.Record()})
			continue
		}
		pending = append(pending, p)
	}
	s.apply(cancelled, immediate)

	if len(pending) == 0 {
		s.wg.Done()
		close(done)
		return done
	}

	log.Debugw("Prefetching visible results", "count", len(pending))
	go func() {
		defer s.wg.Done()
		defer close(done)
		s.runBatches(cancelled, pending)
	}()
	return done
}

// Select sets the selected result. An empty path clears the selection. The
// selected result is resolved immediately, without waiting for visible
// results.
//
// The returned channel is closed when the work for this call is finished.
func (s *Scheduler) Select(path string) <-chan struct{} {
	done := make(chan struct{})
	cancelled, ok := s.begin(&s.selectCancel)
	if !ok {
		close(done)
		return done
	}

	if path == "" {
		s.wg.Done()
		close(done)
		return done
	}
	p := mdnpath.ToPath(path)
	if s.applied(p) {
		s.wg.Done()
		close(done)
		return done
	}

	go func() {
		defer s.wg.Done()
		defer close(done)
		res := s.resolver.Resolve(s.ctx, p)
		if !res.IsResolved() {
			return
		}
		s.apply(cancelled, []Update{{Path: p, Record: res.Record()}})
	}()
	return done
}

// Schedule sets the visible results and the selected result together. The
// returned channel is closed when the work for both is finished.
func (s *Scheduler) Schedule(visible []string, selected string) <-chan struct{} {
	selDone := s.Select(selected)
	visDone := s.SetVisible(visible)
	done := make(chan struct{})
	go func() {
		<-selDone
		<-visDone
		close(done)
	}()
	return done
}

// Updates returns the channel that receives every applied update, in the
// order applied. The channel is closed by Close.
func (s *Scheduler) Updates() <-chan Update {
	return s.updates.Out()
}

// Get returns the applied data for a document. The bool is false if nothing
// has been applied for it.
func (s *Scheduler) Get(path string) (*model.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.state[mdnpath.ToPath(path)]
	return rec, ok
}

// State returns a copy of all applied data, keyed by document path.
func (s *Scheduler) State() map[string]*model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := make(map[string]*model.Record, len(s.state))
	for p, rec := range s.state {
		state[p] = rec
	}
	return state
}

// Close stops applying results, abandons outstanding lookups and closes the
// Updates channel.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.visibleCancel != nil {
		s.visibleCancel.Store(true)
	}
	if s.selectCancel != nil {
		s.selectCancel.Store(true)
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	close(s.updates.In())
}

// begin supersedes the work guarded by token and returns the new token. It
// returns false if the Scheduler is closed. On success the caller must call
// s.wg.Done when its work is finished.
func (s *Scheduler) begin(token **atomic.Bool) (*atomic.Bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	if *token != nil {
		(*token).Store(true)
	}
	cancelled := new(atomic.Bool)
	*token = cancelled
	s.wg.Add(1)
	return cancelled, true
}

// leading returns the normalized, de-duplicated leading visible paths.
func (s *Scheduler) leading(paths []string) []string {
	if len(paths) > s.visibleLimit {
		paths = paths[:s.visibleLimit]
	}
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		p := mdnpath.ToPath(path)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (s *Scheduler) applied(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state[p]
	return ok
}

// runBatches resolves pending in batches of s.batchSize. The next batch is
// not started once the work is cancelled.
func (s *Scheduler) runBatches(cancelled *atomic.Bool, pending []string) {
	for start := 0; start < len(pending); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]
		resolved := make([]Update, len(batch))

		var group errgroup.Group
		for i, p := range batch {
			i, p := i, p
			group.Go(func() error {
				res := s.resolver.Resolve(s.ctx, p)
				if !res.IsResolved() {
					return s.ctx.Err()
				}
				resolved[i] = Update{Path: p, Record: res.Record()}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			log.Debugw("Prefetch abandoned", "err", err)
			return
		}

		if cancelled.Load() {
			log.Debugw("Prefetch superseded", "remaining", len(pending)-end)
			return
		}
		s.apply(cancelled, resolved)
	}
}

// apply records updates and delivers them, unless the work that produced
// them has been superseded.
func (s *Scheduler) apply(cancelled *atomic.Bool, updates []Update) {
	if len(updates) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancelled.Load() || s.closed {
		return
	}
	for _, u := range updates {
		s.state[u.Path] = u.Record
		s.updates.In() <- u
	}
}
