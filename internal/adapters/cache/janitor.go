package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a cache entry is not found
	ErrNotFound = errors.New("cache entry not found")
	// ErrExpired is returned when a cache entry has expired
	ErrExpired = errors.New("cache entry expired")
)

// janitor runs a cache's Cleanup on a ticker until stopped
type janitor struct {
	stopCh chan struct{}
	once   sync.Once
}

func newJanitor() *janitor {
	return &janitor{stopCh: make(chan struct{})}
}

// start launches the cleanup loop. A non-positive frequency disables it.
func (j *janitor) start(freq time.Duration, cleanup func(context.Context) error, logger *zap.Logger) {
	if freq <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(freq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := cleanup(context.Background()); err != nil {
					logger.Error("Failed to clean up cache", zap.Error(err))
				}
			case <-j.stopCh:
				return
			}
		}
	}()
}

func (j *janitor) stop() {
	j.once.Do(func() { close(j.stopCh) })
}

func encode(result *core.ClassificationResult) ([]byte, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*core.ClassificationResult, error) {
	var result core.ClassificationResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &result, nil
}
