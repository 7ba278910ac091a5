// Package kvstore is the persistent tier of the MDN caches: a namespaced
// key/value byte store over a go-datastore Datastore, with JSON helpers that
// purge entries which no longer decode.
//
// Keys are arbitrary strings, such as normalized document paths or locale
// codes. Each key is base58-encoded into a single datastore key segment so
// that datastore key cleaning never alters it.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	"github.com/ipfs/go-datastore/query"
	logging "github.com/ipfs/go-log/v2"
	"github.com/mdnkit/go-libmdn/apierror"
	"github.com/mr-tron/base58"
)

var log = logging.Logger("kvstore")

const (
	// CompatNamespace holds compatibility cache entries keyed by document
	// path. The version suffix is bumped to invalidate all prior entries.
	CompatNamespace = "mdn-compat-v2"
	// SearchIndexNamespace holds search index entries keyed by locale.
	SearchIndexNamespace = "mdn-search-index"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = datastore.ErrNotFound

// Store is one namespace of a datastore.
type Store struct {
	ds   datastore.Datastore
	name string
}

// New returns the Store for namespace name within ds.
func New(ds datastore.Datastore, name string) *Store {
	return &Store{
		ds:   namespace.Wrap(ds, datastore.NewKey(name)),
		name: name,
	}
}

// Namespace returns the name of the store's namespace.
func (s *Store) Namespace() string {
	return s.name
}

func dsKey(key string) datastore.Key {
	return datastore.NewKey(base58.Encode([]byte(key)))
}

func fromDSKey(k string) (string, error) {
	b, err := base58.Decode(datastore.NewKey(k).BaseNamespace())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Get returns the value stored for key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return s.ds.Get(ctx, dsKey(key))
}

// Put stores value for key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.ds.Put(ctx, dsKey(key), value)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.ds.Delete(ctx, dsKey(key))
	if err == datastore.ErrNotFound {
		return nil
	}
	return err
}

// GetJSON decodes the value stored for key into v. If the stored value is
// not valid JSON for v, the entry is deleted and an *apierror.DecodeError is
// returned.
func (s *Store) GetJSON(ctx context.Context, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		log.Warnw("Purging corrupt entry", "namespace", s.name, "key", key, "err", err)
		if delErr := s.Delete(ctx, key); delErr != nil {
			log.Errorw("Cannot delete corrupt entry", "namespace", s.name, "key", key, "err", delErr)
		}
		return apierror.NewDecodeError(fmt.Sprintf("%s entry %q", s.name, key), err)
	}
	return nil
}

// PutJSON stores the JSON encoding of v for key.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, data)
}

// Keys returns all keys in the namespace, in no particular order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	results, err := s.ds.Query(ctx, query.Query{KeysOnly: true})
	if err != nil {
		return nil, err
	}
	entries, err := results.Rest()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, ent := range entries {
		key, err := fromDSKey(ent.Key)
		if err != nil {
			log.Warnw("Ignoring undecodable key", "namespace", s.name, "key", ent.Key, "err", err)
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Len returns the number of entries in the namespace.
func (s *Store) Len(ctx context.Context) (int, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Purge deletes every entry in the namespace and returns the number
// deleted. Deletion continues past individual failures, which are returned
// together.
func (s *Store) Purge(ctx context.Context) (int, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}

	var errs error
	var n int
	for _, key := range keys {
		if err = s.Delete(ctx, key); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("cannot delete %q: %w", key, err))
			continue
		}
		n++
	}
	if errs == nil {
		log.Infow("Purged namespace", "namespace", s.name, "count", n)
	}
	return n, errs
}
