package factory

import (
	"context"
	"errors"

	"github.com/mikey/email-triage/internal/adapters/gemini"
	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// GeminiFactory creates Gemini scorers
type GeminiFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	prompts *prompt.Builder
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger, prompts *prompt.Builder) *GeminiFactory {
	return &GeminiFactory{
		cfg:     cfg,
		logger:  logger,
		prompts: prompts,
	}
}

// CreateScorer creates a Gemini scorer
func (f *GeminiFactory) CreateScorer() (core.Scorer, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, model, err := gemini.NewClient(
		context.Background(),
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
	)
	if err != nil {
		return nil, err
	}

	return gemini.NewScorer(model, client, geminiCfg.ModelName, f.prompts, f.logger), nil
}
