package lexicon

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "by": true, "for": true,
	"from": true, "in": true, "into": true, "is": true, "it": true, "no": true, "not": true,
	"of": true, "on": true, "or": true, "that": true, "the": true, "this": true, "to": true,
	"with": true, "without": true, "any": true, "email": true, "doesn't": true, "fit": true,
}

// Scorer ranks labels by word overlap with their descriptions. It runs
// offline and never fails.
type Scorer struct {
	logger *zap.Logger
}

// NewScorer creates a new lexicon scorer
func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger}
}

// Name returns the scorer name
func (s *Scorer) Name() string {
	return "lexicon"
}

// Rank scores each label as the share of its description words present in text
func (s *Scorer) Rank(ctx context.Context, text string, labels []core.LabelDescription) ([]core.LabelScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := make(map[string]bool)
	for _, w := range tokens(text) {
		words[stem(w)] = true
	}

	scores := make([]core.LabelScore, 0, len(labels))
	for _, l := range labels {
		terms := uniqueTerms(l.Name + " " + l.Description)
		hits := 0
		for _, t := range terms {
			if words[t] {
				hits++
			}
		}
		score := 0.0
		if len(terms) > 0 {
			score = float64(hits) / float64(len(terms))
		}
		scores = append(scores, core.LabelScore{Label: l.Name, Score: score})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	s.logger.Debug("Ranked labels by overlap", zap.Int("labels", len(labels)), zap.Int("words", len(words)))
	return scores, nil
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func uniqueTerms(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range tokens(text) {
		if stopwords[w] || len(w) < 3 {
			continue
		}
		w = stem(w)
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// stem strips a plural or verb suffix so "invoices" meets "invoice"
func stem(w string) string {
	for _, suffix := range []string{"ing", "ed", "s"} {
		if len(w) > len(suffix)+3 && strings.HasSuffix(w, suffix) && !strings.HasSuffix(w, "ss") {
			return w[:len(w)-len(suffix)]
		}
	}
	return w
}
