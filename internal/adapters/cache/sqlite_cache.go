package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS triage_cache (
			cache_key TEXT PRIMARY KEY,
			result TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triage_cache_expires_at ON triage_cache(expires_at)`,
	},
	upsert: `INSERT OR REPLACE INTO triage_cache (cache_key, result, expires_at) VALUES (?, ?, ?)`,
}

// SQLiteCache is a SQLite implementation of the CacheRepository interface
type SQLiteCache struct {
	*sqlStore
}

// NewSQLiteCache creates a new SQLite cache. Use ":memory:" for a throwaway database.
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// An in-memory database lives on a single connection
	db.SetMaxOpenConns(1)

	store, err := newSQLStore(db, sqliteDialect, logger, cleanupFreq)
	if err != nil {
		return nil, err
	}
	return &SQLiteCache{sqlStore: store}, nil
}
