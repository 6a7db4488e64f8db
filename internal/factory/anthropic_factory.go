package factory

import (
	"errors"

	"github.com/mikey/email-triage/internal/adapters/anthropic"
	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// AnthropicFactory creates Anthropic scorers
type AnthropicFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	prompts *prompt.Builder
}

// NewAnthropicFactory creates a new Anthropic factory
func NewAnthropicFactory(cfg *config.Config, logger *zap.Logger, prompts *prompt.Builder) *AnthropicFactory {
	return &AnthropicFactory{
		cfg:     cfg,
		logger:  logger,
		prompts: prompts,
	}
}

// CreateScorer creates an Anthropic scorer
func (f *AnthropicFactory) CreateScorer() (core.Scorer, error) {
	anthropicCfg := f.cfg.GetAnthropic()
	if anthropicCfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}

	return anthropic.NewScorer(
		anthropic.NewMessageClient(anthropicCfg.APIKey),
		anthropicCfg.ModelName,
		anthropicCfg.MaxTokens,
		anthropicCfg.Temperature,
		f.prompts,
		f.logger,
	), nil
}
