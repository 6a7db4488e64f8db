package lexicon

import (
	"context"
	"testing"

	"github.com/mikey/email-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var labels = []core.LabelDescription{
	{Name: "Invoices Request", Description: "Email requesting invoice copies or invoice documentation"},
	{Name: "Auto Reply", Description: "Automatic responses including out-of-office messages and surveys"},
	{Name: "Uncategorized", Description: "Email that doesn't clearly fit any specific business category"},
}

func TestRank(t *testing.T) {
	s := NewScorer(zap.NewNop())

	scores, err := s.Rank(context.Background(), "We are requesting copies of the invoices", labels)

	require.NoError(t, err)
	require.Len(t, scores, len(labels))
	assert.Equal(t, "Invoices Request", scores[0].Label)
	assert.Greater(t, scores[0].Score, 0.4)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
	}
	assert.Equal(t, "lexicon", s.Name())
}

func TestRankNoOverlap(t *testing.T) {
	scores, err := NewScorer(nil).Rank(context.Background(), "zzz qqq", labels)

	require.NoError(t, err)
	for _, sc := range scores {
		assert.Zero(t, sc.Score)
	}
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScorer(nil).Rank(ctx, "invoice", labels)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "invoice", stem("invoices"))
	assert.Equal(t, "request", stem("requesting"))
	assert.Equal(t, "request", stem("requested"))
	assert.Equal(t, "process", stem("process"))
	assert.Equal(t, "was", stem("was"))
}
