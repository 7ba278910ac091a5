package sqlds_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	"github.com/mdnkit/go-libmdn/kvstore"
	"github.com/mdnkit/go-libmdn/kvstore/sqlds"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*sqlds.Datastore, string) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ds, err := sqlds.Open(path)
	require.NoError(t, err)
	return ds, path
}

func TestDatastore(t *testing.T) {
	ctx := context.Background()
	ds, _ := openTemp(t)
	defer ds.Close()

	key := datastore.NewKey("/a/b")
	_, err := ds.Get(ctx, key)
	require.ErrorIs(t, err, datastore.ErrNotFound)
	has, err := ds.Has(ctx, key)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, ds.Put(ctx, key, []byte("one")))
	require.NoError(t, ds.Put(ctx, key, []byte("three")))
	val, err := ds.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "three", string(val))

	size, err := ds.GetSize(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 5, size)

	require.NoError(t, ds.Delete(ctx, key))
	_, err = ds.Get(ctx, key)
	require.ErrorIs(t, err, datastore.ErrNotFound)
	require.NoError(t, ds.Delete(ctx, key))
}

func TestQueryPrefix(t *testing.T) {
	ctx := context.Background()
	ds, _ := openTemp(t)
	defer ds.Close()

	for _, k := range []string{"/a/1", "/a/2", "/ab/3", "/b/4"} {
		require.NoError(t, ds.Put(ctx, datastore.NewKey(k), []byte(k)))
	}

	results, err := ds.Query(ctx, query.Query{Prefix: "/a", KeysOnly: true})
	require.NoError(t, err)
	entries, err := results.Rest()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "/a/1", entries[0].Key)
	require.Equal(t, "/a/2", entries[1].Key)
	require.Nil(t, entries[0].Value)

	results, err = ds.Query(ctx, query.Query{})
	require.NoError(t, err)
	entries, err = results.Rest()
	require.NoError(t, err)
	require.Len(t, entries, 4)
}

func TestPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	ds, path := openTemp(t)

	store := kvstore.New(ds, kvstore.CompatNamespace)
	require.NoError(t, store.Put(ctx, "/en-US/docs/Web/API/fetch", []byte(`{}`)))
	require.NoError(t, ds.Close())

	ds, err := sqlds.Open(path)
	require.NoError(t, err)
	defer ds.Close()

	store = kvstore.New(ds, kvstore.CompatNamespace)
	val, err := store.Get(ctx, "/en-US/docs/Web/API/fetch")
	require.NoError(t, err)
	require.Equal(t, "{}", string(val))

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := sqlds.Open(" ")
	require.Error(t, err)
}
