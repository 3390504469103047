package weather

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Cache stores the last report per coordinate key.
type Cache interface {
	Get(ctx context.Context, key string) (Report, bool, error)
	Put(ctx context.Context, key string, report Report) error
}

// =============================================================================
// SQLITE CACHE
// =============================================================================

// SQLiteCache keeps reports in a sqlite database file.
type SQLiteCache struct {
	db *sql.DB
}

const createCacheTableSQL = `CREATE TABLE IF NOT EXISTS weather_cache (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
);`

// OpenSQLiteCache opens (or creates) the cache database at path.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weather cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createCacheTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise weather cache: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get returns the cached report for key.
func (c *SQLiteCache) Get(ctx context.Context, key string) (Report, bool, error) {
	var payload string
	row := c.db.QueryRowContext(ctx, "SELECT payload FROM weather_cache WHERE key = ?", key)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, false, nil
		}
		return Report{}, false, err
	}

	var report Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return Report{}, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return report, true, nil
}

// Put stores report under key, replacing any previous entry.
func (c *SQLiteCache) Put(ctx context.Context, key string, report Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO weather_cache(key, payload, fetched_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, string(payload), report.FetchedAt.Unix())
	return err
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// =============================================================================
// MEMORY CACHE
// =============================================================================

// MemoryCache keeps reports in process memory.
type MemoryCache struct {
	mu      sync.RWMutex
	reports map[string]Report
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{reports: make(map[string]Report)}
}

// Get returns the cached report for key.
func (c *MemoryCache) Get(_ context.Context, key string) (Report, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reports[key]
	return r, ok, nil
}

// Put stores report under key.
func (c *MemoryCache) Put(_ context.Context, key string, report Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[key] = report
	return nil
}
