package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
)

// ErrNoScores is returned when a response names none of the offered labels
var ErrNoScores = errors.New("no label scores in response")

// System is the instruction sent ahead of every ranking prompt
const System = "You are an email triage assistant for an accounts receivable team. Respond only with JSON."

const format = `Rate how well each label describes the email below.
Respond with a JSON object of the form:
{"scores": [{"label": "<label name>", "score": <number between 0 and 1>}]}
Include every label exactly once, using the names as written.

Labels:
%s
Email:
%s

Respond only with the JSON object and nothing else.`

// Builder renders ranking prompts with a bounded email body
type Builder struct {
	processor   *utils.TextProcessor
	maxBodySize int
}

// NewBuilder creates a new prompt builder
func NewBuilder(processor *utils.TextProcessor, maxBodySize int) *Builder {
	return &Builder{processor: processor, maxBodySize: maxBodySize}
}

// Build renders the ranking prompt for a text and candidate labels
func (b *Builder) Build(text string, labels []core.LabelDescription) string {
	var list strings.Builder
	for _, l := range labels {
		fmt.Fprintf(&list, "- %s: %s\n", l.Name, l.Description)
	}
	return fmt.Sprintf(format, list.String(), b.processor.ProcessText(text, b.maxBodySize))
}

type response struct {
	Scores []core.LabelScore `json:"scores"`
}

// Parse decodes a model response into scores sorted highest first. Labels
// that were not offered are dropped and scores are clipped to [0, 1].
func Parse(responseText string, labels []core.LabelDescription) ([]core.LabelScore, error) {
	var resp response
	if err := json.Unmarshal([]byte(responseText), &resp); err != nil {
		// Models sometimes wrap the object in prose or code fences
		start := strings.Index(responseText, "{")
		end := strings.LastIndex(responseText, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to extract JSON from response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[start:end+1]), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse response as JSON: %w", err)
		}
	}

	offered := make(map[string]bool, len(labels))
	for _, l := range labels {
		offered[l.Name] = true
	}

	scores := make([]core.LabelScore, 0, len(resp.Scores))
	seen := make(map[string]bool, len(resp.Scores))
	for _, s := range resp.Scores {
		if !offered[s.Label] || seen[s.Label] {
			continue
		}
		seen[s.Label] = true
		s.Score = min(max(s.Score, 0), 1)
		scores = append(scores, s)
	}
	if len(scores) == 0 {
		return nil, ErrNoScores
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores, nil
}
