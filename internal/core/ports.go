package core

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyInput is reported when cleaning leaves nothing to classify
var ErrEmptyInput = errors.New("empty input after cleaning")

// Scorer ranks candidate labels for a text
type Scorer interface {
	// Rank returns scores for the supplied labels, highest first
	Rank(ctx context.Context, text string, labels []LabelDescription) ([]LabelScore, error)

	// Name identifies the scorer in results and logs
	Name() string
}

// CacheRepository defines the interface for caching classification results
type CacheRepository interface {
	// Get retrieves a cached result by content key
	Get(ctx context.Context, key string) (*ClassificationResult, bool)

	// Set stores a result
	Set(ctx context.Context, key string, result *ClassificationResult, ttl time.Duration)

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error

	// Stop releases background workers and connections
	Stop()
}
