package lookupcache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"hondana/internal/logging"
	"hondana/internal/lookup"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; mismatched databases must be deleted and rebuilt.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Cache stores identifier-lookup results in SQLite.
type Cache struct {
	db     *sql.DB
	path   string
	ttl    time.Duration
	logger *slog.Logger
}

// Open initializes or connects to the cache database. An empty path returns
// a no-op cache so callers never need to branch.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	logger = logging.NewComponentLogger(logger, "lookupcache")
	if strings.TrimSpace(path) == "" {
		return &Cache{logger: logger}, nil
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path, ttl: ttl, logger: logger}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, c.path)
	}
	return nil
}

// Lookup returns the cached item for an identifier, if present and fresh.
func (c *Cache) Lookup(ctx context.Context, identifier string) (*lookup.Item, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || c.db == nil {
		return nil, false
	}

	var item lookup.Item
	var fetchedAt string
	err := c.db.QueryRowContext(ctx,
		"SELECT title, isbn13, asin, image, fetched_at FROM lookups WHERE identifier = ?",
		identifier,
	).Scan(&item.Title, &item.ISBN13, &item.ASIN, &item.Image, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn("cache lookup failed", logging.Error(err))
		}
		return nil, false
	}

	stamp, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil || time.Since(stamp) > c.ttl {
		// Stale or unreadable entries are dropped on read.
		if _, delErr := c.db.ExecContext(ctx, "DELETE FROM lookups WHERE identifier = ?", identifier); delErr != nil {
			c.logger.Warn("cache eviction failed", logging.Error(delErr))
		}
		return nil, false
	}
	return &item, true
}

// Store caches a lookup result under the identifier, replacing any prior
// entry.
func (c *Cache) Store(ctx context.Context, identifier, source string, item lookup.Item) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return errors.New("identifier cannot be empty")
	}
	if c.db == nil {
		return nil
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO lookups (identifier, source, title, isbn13, asin, image, fetched_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(identifier) DO UPDATE SET
             source = excluded.source,
             title = excluded.title,
             isbn13 = excluded.isbn13,
             asin = excluded.asin,
             image = excluded.image,
             fetched_at = excluded.fetched_at`,
		identifier, source, item.Title, item.ISBN13, item.ASIN, item.Image,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("persist lookup: %w", err)
	}
	return nil
}

// Count returns the number of cached entries.
func (c *Cache) Count(ctx context.Context) (int, error) {
	if c.db == nil {
		return 0, nil
	}
	var count int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM lookups").Scan(&count); err != nil {
		return 0, fmt.Errorf("count lookups: %w", err)
	}
	return count, nil
}

// Clear removes every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM lookups"); err != nil {
		return fmt.Errorf("clear lookups: %w", err)
	}
	return nil
}
