package di

import (
	"context"
	"testing"

	"github.com/mikey/email-triage/internal/adapters/filter"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCLIContainerClassifies(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{Provider: "lexicon"})
	require.NoError(t, err)

	err = container.Invoke(func(svc *core.TriageService, ef ports.EmailFilter) {
		res := svc.Classify(context.Background(), &core.Email{
			Subject: "Out of office",
			Body:    "I am out of the office until Monday and will return on 03/10/2025.",
		})
		assert.Equal(t, "Auto Reply (with/without info)", res.Category)
		assert.GreaterOrEqual(t, res.Confidence, 0.1)

		_, ok := ef.(*filter.CliFilter)
		assert.True(t, ok)
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerWithoutScorer(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{Provider: "none", BatchSize: 3, Workers: 2})
	require.NoError(t, err)

	err = container.Invoke(func(scorer core.Scorer, svc *core.TriageService) {
		assert.Nil(t, scorer)

		emails := []*core.Email{
			{Subject: "a", Body: "please send the invoice copy"},
			{Subject: "b", Body: "we paid yesterday"},
			{Subject: "c", Body: "   "},
			{Subject: "d", Body: "the amount is wrong, we dispute this charge"},
		}
		results := svc.ClassifyBatch(context.Background(), emails)
		require.Len(t, results, 4)
		assert.Equal(t, core.MethodErrorFallback, results[2].Method)
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerRejectsUnknownProvider(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{Provider: "carrier-pigeon"})
	require.NoError(t, err)

	err = container.Invoke(func(core.Scorer) {})
	assert.Error(t, err)
}

func TestCreateConfigFromFlags(t *testing.T) {
	cfg := createConfigFromFlags(&CLIFlags{
		Provider:     "openai",
		OpenAIAPIKey: "sk-test",
		MaxTokens:    256,
		Temperature:  0.2,
		Timeout:      "3s",
	})

	assert.Equal(t, "cli", cfg.GetString("server.filter_type"))
	assert.False(t, cfg.GetBool("cache.enabled"))
	openai := cfg.GetOpenAI()
	assert.Equal(t, "sk-test", openai.APIKey)
	assert.Equal(t, "gpt-4o-mini", openai.ModelName)
	assert.Equal(t, 256, openai.MaxTokens)
	assert.InDelta(t, 0.2, openai.Temperature, 1e-6)

	res, err := cfg.GetResilience()
	require.NoError(t, err)
	assert.Equal(t, "3s", res.Timeout.String())
}
