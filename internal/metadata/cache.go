// Package metadata caches catalog lookups in the library database.
package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a TTL key/value store on the metadata_cache table.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// NewCache creates a cache on a database opened with library.Open.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// Get returns the value for key, or false when absent or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value string
	var expiresAt time.Time
	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM metadata_cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err != nil || c.now().After(expiresAt) {
		return nil, false
	}
	return []byte(value), true
}

// Set stores value under key until ttl elapses.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO metadata_cache (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, string(value), c.now().Add(ttl).UTC(),
	)
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Prune removes expired entries and returns how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM metadata_cache WHERE expires_at < ?", c.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}

func getJSON[T any](ctx context.Context, c *Cache, key string) (*T, bool) {
	data, ok := c.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func setJSON(ctx context.Context, c *Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
