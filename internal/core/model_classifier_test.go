package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mikey/email-triage/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubScorer struct {
	scores []LabelScore
	err    error
	panics bool
	calls  int
}

func (s *stubScorer) Rank(_ context.Context, _ string, labels []LabelDescription) ([]LabelScore, error) {
	s.calls++
	if s.panics {
		panic("scorer exploded")
	}
	if len(labels) != len(categoryDescriptions) {
		return nil, errors.New("unexpected labels")
	}
	return s.scores, s.err
}

func (s *stubScorer) Name() string { return "stub" }

func TestModelClassifyKeywords(t *testing.T) {
	m := NewModelClassifier(nil, zap.NewNop())

	tests := []struct {
		text        string
		category    string
		subcategory string
	}{
		{"We have already paid this invoice.", taxonomy.PaymentsClaim, taxonomy.ClaimsPaidNoInfo},
		{"Ticket created for your dispute", taxonomy.NoReply, taxonomy.TicketCreated},
		{"Our company closed and the payment is still due", taxonomy.ManualReview, taxonomy.ClosurePaymentDue},
		{"Can you send me the invoice for March?", taxonomy.InvoicesRequest, taxonomy.RequestNoInfo},
		{"Please take our survey", taxonomy.AutoReply, taxonomy.Survey},
		{"Payment made, proof of payment below", taxonomy.ManualReview, taxonomy.ComplexQueries},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := m.Classify(context.Background(), tt.text, false)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.subcategory, res.Subcategory)
			assert.Equal(t, 0.7, res.Confidence)
			assert.Equal(t, MethodModel, res.Method)
		})
	}
}

func TestModelClassifyThreadAndEmpty(t *testing.T) {
	m := NewModelClassifier(nil, nil)

	res := m.Classify(context.Background(), "We already paid", true)
	assert.Equal(t, MethodModelThreadDefer, res.Method)
	assert.Equal(t, 0.6, res.Confidence)
	assert.Equal(t, taxonomy.ComplexQueries, res.Subcategory)

	res = m.Classify(context.Background(), "  \n ", false)
	assert.Equal(t, MethodModelFallback, res.Method)
	assert.Equal(t, 0.5, res.Confidence)
	assert.Equal(t, taxonomy.ManualReview, res.Category)
}

func TestModelClassifyUsesScorer(t *testing.T) {
	scorer := &stubScorer{scores: []LabelScore{{taxonomy.AutoReply, 0.8}, {taxonomy.ManualReview, 0.1}}}
	m := NewModelClassifier(scorer, zap.NewNop())

	res := m.Classify(context.Background(), "hello there", false)

	require.Equal(t, 1, scorer.calls)
	assert.Equal(t, taxonomy.AutoReply, res.Category)
	assert.Equal(t, taxonomy.NoInfoAutoreply, res.Subcategory)
	assert.Equal(t, "stub", res.Scorer)
}

func TestModelClassifySkipsScorerOnKeywordVote(t *testing.T) {
	scorer := &stubScorer{scores: []LabelScore{{taxonomy.AutoReply, 0.9}}}
	m := NewModelClassifier(scorer, zap.NewNop())

	res := m.Classify(context.Background(), "we paid yesterday", false)

	assert.Zero(t, scorer.calls)
	assert.Equal(t, taxonomy.PaymentsClaim, res.Category)
	assert.Empty(t, res.Scorer)
}

func TestModelClassifyScorerFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		scorer   *stubScorer
		text     string
		category string
	}{
		{"low score", &stubScorer{scores: []LabelScore{{taxonomy.AutoReply, 0.3}}}, "hello there", taxonomy.ManualReview},
		{"unknown label", &stubScorer{scores: []LabelScore{{"Spam", 0.9}}}, "hello there", taxonomy.ManualReview},
		{"error", &stubScorer{err: errors.New("timeout")}, "the ticket was resolved", taxonomy.NoReply},
		{"no scores", &stubScorer{}, "thanks, it was completed", taxonomy.PaymentsClaim},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewModelClassifier(tt.scorer, zap.NewNop()).Classify(context.Background(), tt.text, false)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, MethodModel, res.Method)
			assert.Empty(t, res.Scorer)
		})
	}
}

func TestModelClassifyRecoversFromScorerPanic(t *testing.T) {
	m := NewModelClassifier(&stubScorer{panics: true}, zap.NewNop())

	res := m.Classify(context.Background(), "hello there", false)

	assert.Equal(t, MethodModelFallback, res.Method)
	assert.Equal(t, 0.5, res.Confidence)
}

func TestModelResultsAreValidEdges(t *testing.T) {
	m := NewModelClassifier(nil, nil)
	tree := taxonomy.Default()

	texts := []string{
		"dispute", "promotion ends soon", "processing failed", "case resolved today",
		"out of office, contact bob", "will return monday", "property manager changed",
		"payment receipt attached", "payment details below", "format mismatch in invoice issue",
		"redirect this", "business closure information", "thank you for the payment",
	}
	for _, text := range texts {
		res := m.Classify(context.Background(), text, false)
		assert.True(t, tree.Validate(res.Category, res.Subcategory), "%q -> %s/%s", text, res.Category, res.Subcategory)
		assert.True(t, tree.IsLeaf(res.Subcategory), text)
	}
}

func TestLimitWords(t *testing.T) {
	long := strings.Repeat("word ", 600)

	assert.Len(t, strings.Fields(limitWords(long, modelWordLimit)), modelWordLimit)
	assert.Equal(t, "a b c", limitWords(" a\n b\t c ", 10))
}
