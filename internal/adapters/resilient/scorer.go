package resilient

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options bounds calls to the wrapped scorer
type Options struct {
	Timeout     time.Duration
	RateLimit   float64
	Burst       int
	MaxFailures int
	OpenTimeout time.Duration
}

// Scorer guards a remote scorer with a per-call timeout, a token bucket and
// a circuit breaker. Failed calls are not retried.
type Scorer struct {
	next    core.Scorer
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

// NewScorer wraps next. A zero rate limit disables throttling.
func NewScorer(next core.Scorer, opts Options, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	maxFailures := uint32(5)
	if opts.MaxFailures > 0 {
		maxFailures = uint32(opts.MaxFailures)
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Scorer circuit breaker changed state",
				zap.String("scorer", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Scorer{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		cb:      gobreaker.NewCircuitBreaker(settings),
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Name returns the wrapped scorer's name
func (s *Scorer) Name() string {
	return s.next.Name()
}

// Rank forwards to the wrapped scorer within the configured limits
func (s *Scorer) Rank(ctx context.Context, text string, labels []core.LabelDescription) ([]core.LabelScore, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire scorer rate limit: %w", err)
	}

	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Rank(ctx, text, labels)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank labels with %s: %w", s.next.Name(), err)
	}
	return out.([]core.LabelScore), nil
}

// State reports the circuit breaker state
func (s *Scorer) State() gobreaker.State {
	return s.cb.State()
}

// Close releases the wrapped scorer's client when it holds one
func (s *Scorer) Close() error {
	if closer, ok := s.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
