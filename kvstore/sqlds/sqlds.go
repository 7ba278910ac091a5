// Package sqlds provides a go-datastore Datastore stored in a SQLite file.
package sqlds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL
);
`

// Datastore is a Datastore backed by one SQLite table.
type Datastore struct {
	sqlDB *sql.DB
}

var _ datastore.Datastore = (*Datastore)(nil)

// Open opens or creates the SQLite database at path.
func Open(path string) (*Datastore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err = sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Datastore{sqlDB: sqlDB}, nil
}

func (d *Datastore) Get(ctx context.Context, key datastore.Key) ([]byte, error) {
	var value []byte
	err := d.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key.String()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, datastore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (d *Datastore) Has(ctx context.Context, key datastore.Key) (bool, error) {
	_, err := d.GetSize(ctx, key)
	if err == datastore.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (d *Datastore) GetSize(ctx context.Context, key datastore.Key) (int, error) {
	var size int
	err := d.sqlDB.QueryRowContext(ctx, `SELECT length(value) FROM kv WHERE key = ?`, key.String()).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, datastore.ErrNotFound
	}
	if err != nil {
		return -1, err
	}
	return size, nil
}

func (d *Datastore) Put(ctx context.Context, key datastore.Key, value []byte) error {
	_, err := d.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key.String(), value)
	return err
}

func (d *Datastore) Delete(ctx context.Context, key datastore.Key) error {
	_, err := d.sqlDB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key.String())
	return err
}

// Query loads the rows under the query prefix and applies the rest of the
// query in memory.
func (d *Datastore) Query(ctx context.Context, q query.Query) (query.Results, error) {
	prefix := datastore.NewKey(q.Prefix).String()
	if prefix != "/" {
		prefix += "/"
	} else {
		prefix = ""
	}

	rows, err := d.sqlDB.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`,
		len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []query.Entry
	for rows.Next() {
		var ent query.Entry
		var value []byte
		if err = rows.Scan(&ent.Key, &value); err != nil {
			return nil, err
		}
		ent.Size = len(value)
		if !q.KeysOnly {
			ent.Value = value
		}
		entries = append(entries, ent)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	// Prefix is already applied.
	naive := q
	naive.Prefix = ""
	return query.NaiveQueryApply(naive, query.ResultsWithEntries(naive, entries)), nil
}

func (d *Datastore) Sync(ctx context.Context, prefix datastore.Key) error {
	return nil
}

// Close closes the SQLite handle.
func (d *Datastore) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}
