// Package features extracts lexical signals from cleaned email text.
package features

import (
	"math"
	"strconv"
	"strings"

	"github.com/mikey/email-triage/internal/phrases"
)

const (
	maxEntities        = 20
	maxKeyPhrases      = 15
	entityConfidence   = 0.9
	positiveWeight     = 1.0
	negativeWeight     = 1.2
	urgencyUnit        = 0.25
	complexityWordStep = 0.07
	complexityWordCap  = 0.35
)

// Entity is a typed span found in the text
type Entity struct {
	Type       string  `json:"type"`
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Analysis holds the features of one text
type Analysis struct {
	Sentiment       float64  `json:"sentiment"`
	Entities        []Entity `json:"entities"`
	KeyPhrases      []string `json:"key_phrases"`
	Topics          []string `json:"topics"`
	UrgencyScore    float64  `json:"urgency_score"`
	FinancialTerms  []string `json:"financial_terms"`
	ActionRequired  bool     `json:"action_required"`
	ComplexityScore float64  `json:"complexity_score"`
}

// HasEntity reports whether an entity of any given type was found
func (a Analysis) HasEntity(types ...string) bool {
	for _, e := range a.Entities {
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
	}
	return false
}

// HasKeyPhrase reports whether any key phrase contains one of the fragments
func (a Analysis) HasKeyPhrase(fragments ...string) bool {
	for _, p := range a.KeyPhrases {
		for _, f := range fragments {
			if strings.Contains(p, f) {
				return true
			}
		}
	}
	return false
}

// MaxAmount returns the largest dollar amount found, or 0
func (a Analysis) MaxAmount() float64 {
	largest := 0.0
	for _, e := range a.Entities {
		if e.Type != EntityAmount {
			continue
		}
		raw := strings.NewReplacer("$", "", ",", "", " ", "").Replace(e.Text)
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil && v > largest {
			largest = v
		}
	}
	return largest
}

// Analyze extracts features from cleaned text. It is deterministic and has
// no side effects.
func Analyze(text string) Analysis {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) < 5 {
		return Analysis{}
	}
	lowered := strings.ToLower(text)

	topics := Topics(lowered)
	financial := financialTerms(lowered)

	return Analysis{
		Sentiment:       sentiment(lowered),
		Entities:        entities(text),
		KeyPhrases:      keyPhrases(lowered),
		Topics:          topics,
		UrgencyScore:    urgency(lowered),
		FinancialTerms:  financial,
		ActionRequired:  actionRequired(lowered),
		ComplexityScore: complexity(lowered, len(financial), len(topics)),
	}
}

// Topics returns the leaf labels whose indicators occur in the lowered
// text, followed by the financial topics whose keywords occur
func Topics(lowered string) []string {
	var topics []string
	for _, e := range phrases.Entries() {
		if phrases.ContainsAny(lowered, e.Indicators) {
			topics = append(topics, e.Subcategory)
		}
	}
	for _, g := range financialGroups {
		if phrases.ContainsAny(lowered, g.Keywords) {
			topics = append(topics, g.Name)
		}
	}
	return topics
}

// IsFinancialTopic reports whether a topic is a financial group name
func IsFinancialTopic(topic string) bool {
	for _, g := range financialGroups {
		if g.Name == topic {
			return true
		}
	}
	return false
}

func sentiment(lowered string) float64 {
	pos := float64(phrases.CountDistinct(lowered, positiveWords)) * positiveWeight
	neg := float64(phrases.CountDistinct(lowered, negativeWords)) * negativeWeight
	if pos+neg == 0 {
		return 0
	}
	return round2(clamp((pos-neg)/(pos+neg), -1, 1))
}

func entities(text string) []Entity {
	var out []Entity
	for _, p := range entityPatterns {
		for _, loc := range p.Re.FindAllStringIndex(text, -1) {
			if len(out) >= maxEntities {
				return out
			}
			out = append(out, Entity{
				Type:       p.Type,
				Text:       text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: entityConfidence,
			})
		}
	}
	return out
}

func keyPhrases(lowered string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(terms []string) bool {
		for _, t := range terms {
			if len(out) >= maxKeyPhrases {
				return false
			}
			if !seen[t] && strings.Contains(lowered, t) {
				seen[t] = true
				out = append(out, t)
			}
		}
		return true
	}

	for _, e := range phrases.Entries() {
		if !add(e.Indicators) {
			return out
		}
	}
	for _, g := range financialGroups {
		if !add(g.Keywords) {
			return out
		}
	}
	return out
}

func financialTerms(lowered string) []string {
	var out []string
	for _, g := range financialGroups {
		for _, k := range g.Keywords {
			if strings.Contains(lowered, k) {
				out = append(out, k)
			}
		}
	}
	return out
}

func urgency(lowered string) float64 {
	units := phrases.CountDistinct(lowered, urgencyWords)
	if strings.Contains(lowered, "immediate") && phrases.ContainsAny(lowered, urgencyObject) {
		units++
	}
	if phrases.ContainsAny(lowered, deadlineTerms) {
		units++
	}
	return math.Min(float64(units)*urgencyUnit, 1)
}

func actionRequired(lowered string) bool {
	return phrases.CountDistinct(lowered, actionWords) >= 2 || phrases.ContainsAny(lowered, strongImperatives)
}

func complexity(lowered string, financialCount, topicCount int) float64 {
	score := math.Min(float64(phrases.CountDistinct(lowered, complexityWords))*complexityWordStep, complexityWordCap)

	words := len(strings.Fields(lowered))
	switch {
	case words > 300:
		score += 0.25
	case words > 150:
		score += 0.15
	}
	if sentences(lowered) > 8 {
		score += 0.20
	}
	if financialCount > 5 {
		score += 0.20
	}
	if topicCount > 3 {
		score += 0.15
	}
	if legal := legalKeywords(); phrases.ContainsAny(lowered, legal) {
		score += 0.10
	}
	return round2(math.Min(score, 1))
}

func legalKeywords() []string {
	for _, g := range financialGroups {
		if g.Name == "legal" {
			return g.Keywords
		}
	}
	return nil
}

func sentences(text string) int {
	n := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
