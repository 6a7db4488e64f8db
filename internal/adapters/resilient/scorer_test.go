package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeScorer struct {
	err   error
	block bool
	calls int
}

func (f *fakeScorer) Name() string { return "fake" }

func (f *fakeScorer) Rank(ctx context.Context, _ string, _ []core.LabelDescription) ([]core.LabelScore, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return []core.LabelScore{{Label: "Manual Review", Score: 0.9}}, nil
}

func TestRankPassesThrough(t *testing.T) {
	s := NewScorer(&fakeScorer{}, Options{Timeout: time.Second}, zap.NewNop())

	scores, err := s.Rank(context.Background(), "text", nil)

	require.NoError(t, err)
	assert.Equal(t, "Manual Review", scores[0].Label)
	assert.Equal(t, "fake", s.Name())
	assert.Equal(t, gobreaker.StateClosed, s.State())
}

func TestRankOpensBreaker(t *testing.T) {
	fake := &fakeScorer{err: errors.New("upstream down")}
	s := NewScorer(fake, Options{MaxFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := s.Rank(context.Background(), "text", nil)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, s.State())

	_, err := s.Rank(context.Background(), "text", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, fake.calls)
}

func TestRankTimesOut(t *testing.T) {
	s := NewScorer(&fakeScorer{block: true}, Options{Timeout: 20 * time.Millisecond}, zap.NewNop())

	_, err := s.Rank(context.Background(), "text", nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRankRateLimitHonorsContext(t *testing.T) {
	s := NewScorer(&fakeScorer{}, Options{RateLimit: 0.001, Burst: 1}, zap.NewNop())

	_, err := s.Rank(context.Background(), "text", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = s.Rank(ctx, "text", nil)
	assert.Error(t, err)
}

type closingScorer struct {
	fakeScorer
	closed bool
}

func (c *closingScorer) Close() error {
	c.closed = true
	return nil
}

func TestCloseForwardsToWrappedScorer(t *testing.T) {
	inner := &closingScorer{}
	require.NoError(t, NewScorer(inner, Options{}, zap.NewNop()).Close())
	assert.True(t, inner.closed)

	assert.NoError(t, NewScorer(&fakeScorer{}, Options{}, zap.NewNop()).Close())
}
