package core

import (
	"sync"
	"time"
)

// StatsSnapshot is a point-in-time copy of the service counters
type StatsSnapshot struct {
	Processed      int64         `json:"processed"`
	Successes      int64         `json:"successes"`
	Errors         int64         `json:"errors"`
	CacheHits      int64         `json:"cache_hits"`
	AverageLatency time.Duration `json:"average_latency"`
}

// Stats accumulates classification counters. Safe for concurrent use.
type Stats struct {
	mu        sync.Mutex
	processed int64
	successes int64
	errors    int64
	cacheHits int64
	average   time.Duration
}

// NewStats creates empty counters
func NewStats() *Stats {
	return &Stats{}
}

// Record adds one classification to the counters
func (s *Stats) Record(success, cached bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed++
	if success {
		s.successes++
	} else {
		s.errors++
	}
	if cached {
		s.cacheHits++
	}
	// running mean
	s.average += (latency - s.average) / time.Duration(s.processed)
}

// Snapshot returns a copy of the counters
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatsSnapshot{
		Processed:      s.processed,
		Successes:      s.successes,
		Errors:         s.errors,
		CacheHits:      s.cacheHits,
		AverageLatency: s.average,
	}
}

// Reset zeroes the counters
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed, s.successes, s.errors, s.cacheHits, s.average = 0, 0, 0, 0, 0
}
