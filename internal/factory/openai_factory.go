package factory

import (
	"errors"

	"github.com/mikey/email-triage/internal/adapters/openai"
	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIFactory creates OpenAI scorers
type OpenAIFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	prompts *prompt.Builder
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger, prompts *prompt.Builder) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:     cfg,
		logger:  logger,
		prompts: prompts,
	}
}

// CreateScorer creates an OpenAI scorer
func (f *OpenAIFactory) CreateScorer() (core.Scorer, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}

	return openai.NewScorer(
		goopenai.NewClient(openaiCfg.APIKey),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.prompts,
		f.logger,
	), nil
}
