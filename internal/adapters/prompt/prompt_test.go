package prompt

import (
	"strings"
	"testing"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var labels = []core.LabelDescription{
	{Name: "Manual Review", Description: "needs a human"},
	{Name: "Payments Claim", Description: "says it was paid"},
}

func TestBuild(t *testing.T) {
	b := NewBuilder(utils.NewTextProcessor(zap.NewNop()), 20)

	p := b.Build(strings.Repeat("x", 100), labels)

	assert.Contains(t, p, "- Manual Review: needs a human\n")
	assert.Contains(t, p, "- Payments Claim: says it was paid\n")
	assert.Contains(t, p, strings.Repeat("x", 20)+"\n[... Content truncated due to size limits ...]")
	assert.NotContains(t, p, strings.Repeat("x", 21))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []core.LabelScore
	}{
		{
			"plain json",
			`{"scores":[{"label":"Manual Review","score":0.2},{"label":"Payments Claim","score":0.7}]}`,
			[]core.LabelScore{{Label: "Payments Claim", Score: 0.7}, {Label: "Manual Review", Score: 0.2}},
		},
		{
			"wrapped in prose",
			"Sure!\n```json\n{\"scores\":[{\"label\":\"Manual Review\",\"score\":1.4}]}\n```",
			[]core.LabelScore{{Label: "Manual Review", Score: 1}},
		},
		{
			"unknown and duplicate labels dropped",
			`{"scores":[{"label":"Spam","score":0.9},{"label":"Manual Review","score":0.5},{"label":"Manual Review","score":0.9}]}`,
			[]core.LabelScore{{Label: "Manual Review", Score: 0.5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, labels)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("no json here", labels)
	assert.Error(t, err)

	_, err = Parse(`{"scores":[{"label":"Spam","score":0.9}]}`, labels)
	assert.ErrorIs(t, err, ErrNoScores)

	_, err = Parse(`{"scores": [}`, labels)
	assert.Error(t, err)
}
