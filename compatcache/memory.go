package compatcache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mdnkit/go-libmdn/compat/model"
)

// entry is one resolution in either tier. A nil record records that the
// document has no compatibility data.
type entry struct {
	fetchedAt time.Time
	record    *model.Record
}

// readOnly is an immutable struct stored atomically in memoryTier.read. The
// m map is the main data and the u map contains updates that have not yet
// been moved into the main map.
type readOnly struct {
	m map[string]*entry
	u map[string]*entry
}

type memoryTier struct {
	read    atomic.Pointer[readOnly]
	writeMu sync.Mutex
}

func (t *memoryTier) loadReadOnly() readOnly {
	if p := t.read.Load(); p != nil {
		return *p
	}
	return readOnly{}
}

func (t *memoryTier) get(key string) (*entry, bool) {
	read := t.loadReadOnly()
	e, ok := read.u[key]
	if !ok {
		e, ok = read.m[key]
	}
	return e, ok
}

func (t *memoryTier) put(key string, e *entry) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	read := t.loadReadOnly()

	// Shallow-copy update map.
	updates := make(map[string]*entry, len(read.u)+1)
	for k, v := range read.u {
		updates[k] = v
	}
	updates[key] = e

	if !needMerge(len(updates), len(read.m)) {
		t.read.Store(&readOnly{m: read.m, u: updates})
		return
	}

	m := make(map[string]*entry, len(read.m)+len(updates))
	for k, v := range read.m {
		m[k] = v
	}
	for k, v := range updates {
		m[k] = v
	}
	t.read.Store(&readOnly{m: m})
}

func (t *memoryTier) len() int {
	read := t.loadReadOnly()
	n := len(read.m)
	for k := range read.u {
		if _, ok := read.m[k]; !ok {
			n++
		}
	}
	return n
}

func (t *memoryTier) clear() {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	t.read.Store(&readOnly{})
}

// needMerge returns true if update set u should be merged into main set m.
// Merging pays off once sum(1..len(u)), the cumulative cost of copying u on
// each write, exceeds len(m).
func needMerge(u, m int) bool {
	return u*(u+1) > m*2
}
