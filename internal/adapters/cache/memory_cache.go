package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

type memoryEntry struct {
	result    core.ClassificationResult
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the CacheRepository interface
type MemoryCache struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	logger  *zap.Logger
	janitor *janitor
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries: make(map[string]memoryEntry),
		logger:  logger,
		janitor: newJanitor(),
	}

	// Start background cleanup
	cache.janitor.start(cleanupFreq, cache.Cleanup, logger)

	return cache
}

// Get retrieves a cached result. The returned value is a copy.
func (c *MemoryCache) Get(ctx context.Context, key string) (*core.ClassificationResult, bool) {
	result, err := c.lookup(key)
	if err != nil {
		return nil, false
	}
	return result, true
}

func (c *MemoryCache) lookup(key string) (*core.ClassificationResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Check if entry has expired
	if time.Now().After(entry.expiresAt) {
		return nil, ErrExpired
	}

	result := entry.result
	result.MatchedPatterns = append([]string(nil), entry.result.MatchedPatterns...)
	return &result, nil
}

// Set stores a copy of result
func (c *MemoryCache) Set(ctx context.Context, key string, result *core.ClassificationResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := memoryEntry{result: *result, expiresAt: time.Now().Add(ttl)}
	entry.result.MatchedPatterns = append([]string(nil), result.MatchedPatterns...)
	c.entries[key] = entry
}

// Delete removes a cache entry
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop stops the background cleanup task
func (c *MemoryCache) Stop() {
	c.janitor.stop()
}
