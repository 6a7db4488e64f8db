package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// dialect holds the statements that differ between SQL engines
type dialect struct {
	name   string
	schema []string
	upsert string
}

// sqlStore keeps JSON encoded results keyed by email fingerprint.
// Expiry is stored as unix seconds.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
	janitor *janitor
}

func newSQLStore(db *sql.DB, d dialect, logger *zap.Logger, cleanupFreq time.Duration) (*sqlStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s cache table: %w", d.name, err)
		}
	}

	s := &sqlStore{
		db:      db,
		dialect: d,
		logger:  logger,
		janitor: newJanitor(),
	}

	// Start background cleanup
	s.janitor.start(cleanupFreq, s.Cleanup, logger)

	return s, nil
}

// Get retrieves a cached result. Read failures are logged and reported as a miss.
func (s *sqlStore) Get(ctx context.Context, key string) (*core.ClassificationResult, bool) {
	result, err := s.lookup(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Failed to read cache entry", zap.String("store", s.dialect.name), zap.Error(err))
		}
		return nil, false
	}
	return result, true
}

func (s *sqlStore) lookup(ctx context.Context, key string) (*core.ClassificationResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT result FROM triage_cache
		WHERE cache_key = ? AND expires_at > ?
	`, key, time.Now().Unix()).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	return decode([]byte(payload))
}

// Set stores result. Write failures are logged; the cache is best effort.
func (s *sqlStore) Set(ctx context.Context, key string, result *core.ClassificationResult, ttl time.Duration) {
	payload, err := encode(result)
	if err != nil {
		s.logger.Warn("Failed to encode cache entry", zap.Error(err))
		return
	}

	expiresAt := time.Now().Add(ttl).Unix()
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, string(payload), expiresAt); err != nil {
		s.logger.Warn("Failed to insert cache entry", zap.String("store", s.dialect.name), zap.Error(err))
	}
}

// Delete removes a cache entry
func (s *sqlStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM triage_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (s *sqlStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM triage_cache WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *sqlStore) Stop() {
	s.janitor.stop()
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close cache database", zap.String("store", s.dialect.name), zap.Error(err))
	}
}
