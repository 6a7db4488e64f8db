// Package patterns scores text against the per-leaf phrase table and
// resolves conflicts between competing leaves.
package patterns

import (
	"math"
	"strings"

	"github.com/mikey/email-triage/internal/phrases"
	"github.com/mikey/email-triage/internal/taxonomy"
	"go.uber.org/zap"
)

const (
	baseConfidence = 0.80
	stepConfidence = 0.10
	maxConfidence  = 0.95
	maxReported    = 3
	minBusiness    = 2
)

// Candidate is a leaf whose patterns matched
type Candidate struct {
	Key             string   `json:"key"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory"`
	Confidence      float64  `json:"confidence"`
	MatchCount      int      `json:"match_count"`
	MatchedPatterns []string `json:"matched_patterns"`
}

// LeafInfo describes the patterns loaded for one leaf
type LeafInfo struct {
	Key         string `json:"key" yaml:"key"`
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory" yaml:"subcategory"`
	Patterns    int    `json:"patterns" yaml:"patterns"`
}

// Engine matches text against the phrase table
type Engine struct {
	entries []phrases.Entry
	logger  *zap.Logger
}

// NewEngine creates a pattern engine over the shared phrase table
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{entries: phrases.Entries(), logger: logger}
}

// Candidates returns every matching leaf in discovery order
func (e *Engine) Candidates(text string) []Candidate {
	var out []Candidate
	for _, entry := range e.entries {
		matched := entry.Loose.Matches(text)
		if len(matched) == 0 {
			continue
		}
		out = append(out, Candidate{
			Key:             entry.Key,
			Category:        entry.Category,
			Subcategory:     entry.Subcategory,
			Confidence:      confidence(len(matched)),
			MatchCount:      len(matched),
			MatchedPatterns: matched,
		})
	}
	return out
}

// Match returns the winning candidate, or false when nothing matched
func (e *Engine) Match(text string) (Candidate, bool) {
	candidates := e.Candidates(text)
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	winner := candidates[0]
	if len(candidates) > 1 {
		winner = resolve(candidates, text)
		e.logger.Debug("Resolved pattern conflict",
			zap.Int("candidates", len(candidates)),
			zap.String("winner", winner.Subcategory))
	}
	if len(winner.MatchedPatterns) > maxReported {
		winner.MatchedPatterns = winner.MatchedPatterns[:maxReported]
	}
	return winner, true
}

// Info reports the pattern count per leaf
func (e *Engine) Info() []LeafInfo {
	out := make([]LeafInfo, 0, len(e.entries))
	for _, entry := range e.entries {
		out = append(out, LeafInfo{
			Key:         entry.Key,
			Category:    entry.Category,
			Subcategory: entry.Subcategory,
			Patterns:    entry.Loose.Len(),
		})
	}
	return out
}

func confidence(count int) float64 {
	c := math.Min(baseConfidence+stepConfidence*float64(count), maxConfidence)
	return math.Round(c*100) / 100
}

func resolve(candidates []Candidate, text string) Candidate {
	lowered := strings.ToLower(text)
	find := func(sub string) (Candidate, bool) {
		for _, c := range candidates {
			if c.Subcategory == sub {
				return c, true
			}
		}
		return Candidate{}, false
	}

	if c, ok := find(taxonomy.DisputedPayment); ok {
		return c
	}

	confirmation, hasConfirmation := find(taxonomy.PaymentConfirmation)
	claims, hasClaims := find(taxonomy.ClaimsPaidNoInfo)
	if hasConfirmation && hasClaims {
		if phrases.ContainsAny(lowered, phrases.ProofIndicators) {
			return confirmation
		}
		return claims
	}

	receipt, hasReceipt := find(taxonomy.InvoiceReceipt)
	request, hasRequest := find(taxonomy.RequestNoInfo)
	if hasReceipt && hasRequest {
		providing := phrases.ContainsAny(lowered, phrases.ProvidingIndicators)
		requesting := phrases.ContainsAny(lowered, phrases.RequestingIndicators)
		switch {
		case providing && !requesting:
			return receipt
		case requesting && !providing:
			return request
		}
	}

	review := inCategory(candidates, taxonomy.ManualReview)
	auto := inCategory(candidates, taxonomy.AutoReply)
	if len(review) > 0 && len(auto) > 0 {
		business := phrases.CountDistinct(lowered, phrases.BusinessTerms)
		ooo := phrases.OutOfOffice.Any(text)
		switch {
		case business >= minBusiness && !ooo:
			return best(review)
		case ooo && business < minBusiness:
			return best(auto)
		}
	}

	if survey, ok := find(taxonomy.Survey); ok {
		business := len(inCategory(candidates, taxonomy.ManualReview)) +
			len(inCategory(candidates, taxonomy.PaymentsClaim)) +
			len(inCategory(candidates, taxonomy.InvoicesRequest))
		if business == 0 {
			return survey
		}
	}

	return best(candidates)
}

func inCategory(candidates []Candidate, category string) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// best picks the highest confidence, then match count. Earlier candidates win ties.
func best(candidates []Candidate) Candidate {
	winner := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > winner.Confidence ||
			(c.Confidence == winner.Confidence && c.MatchCount > winner.MatchCount) {
			winner = c
		}
	}
	return winner
}
