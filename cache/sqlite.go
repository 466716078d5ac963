package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ZaguanLabs/gotdt"
)

const (
	sqliteTable     = "chunk_cache"
	sqliteOpTimeout = 5 * time.Second
)

// SQLiteConfig holds configuration for the SQLite cache.
type SQLiteConfig struct {
	Path   string // Database file; ":memory:" keeps it in process
	TTL    int    // TTL in seconds (0 = no expiration)
	Logger *slog.Logger
}

// SQLiteCache persists chunk translations in a local SQLite file so they
// survive restarts of a single-host deployment.
type SQLiteCache struct {
	db     *sql.DB
	sq     sq.StatementBuilderType
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteCache opens (or creates) the database at cfg.Path.
func NewSQLiteCache(cfg SQLiteConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite cache: path is required")
	}

	inMemory := cfg.Path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite cache: make db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite cache: open: %w", err)
	}
	if inMemory {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite cache: pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + sqliteTable + ` (
		cache_key   TEXT PRIMARY KEY,
		translation TEXT NOT NULL,
		created_at  INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite cache: create table: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var ttl time.Duration
	if cfg.TTL > 0 {
		ttl = time.Duration(cfg.TTL) * time.Second
	}

	return &SQLiteCache{
		db:     db,
		sq:     sq.StatementBuilder,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (c *SQLiteCache) cutoff() int64 {
	return c.now().Add(-c.ttl).Unix()
}

// Get returns the cached translation for key. Expired rows and database
// errors count as a miss.
func (c *SQLiteCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	q := c.sq.Select("translation", "created_at").
		From(sqliteTable).
		Where(sq.Eq{"cache_key": key}).
		Limit(1)
	sqlStr, args, _ := q.ToSql()

	var value string
	var created int64
	err := c.db.QueryRowContext(ctx, sqlStr, args...).Scan(&value, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		c.logger.Warn("sqlite cache get failed", "error", err)
		return "", false
	}
	if c.ttl > 0 && created < c.cutoff() {
		return "", false
	}
	return value, true
}

// Set inserts or replaces the translation for key.
func (c *SQLiteCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	q := c.sq.Insert(sqliteTable).
		Columns("cache_key", "translation", "created_at").
		Values(key, value, c.now().Unix()).
		Suffix("ON CONFLICT(cache_key) DO UPDATE SET translation=excluded.translation, created_at=excluded.created_at")
	sqlStr, args, _ := q.ToSql()

	if _, err := c.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return &gotdt.CacheError{Message: "sqlite set", Cause: err}
	}
	return nil
}

// All returns the live entries sorted by key.
func (c *SQLiteCache) All() ([]Entry, error) {
	q := c.sq.Select("cache_key", "translation").
		From(sqliteTable).
		OrderBy("cache_key")
	if c.ttl > 0 {
		q = q.Where(sq.GtOrEq{"created_at": c.cutoff()})
	}
	sqlStr, args, _ := q.ToSql()

	rows, err := c.db.QueryContext(context.Background(), sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite cache list: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("sqlite cache list: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes expired rows and reports how many were removed. It is a
// no-op when no TTL is configured.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}

	q := c.sq.Delete(sqliteTable).Where(sq.Lt{"created_at": c.cutoff()})
	sqlStr, args, _ := q.ToSql()

	res, err := c.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite cache purge: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		c.logger.Debug("sqlite cache purged", "rows", n)
	}
	return n, nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Verify SQLiteCache implements Enumerable
var _ Enumerable = (*SQLiteCache)(nil)
