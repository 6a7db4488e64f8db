package factory

import (
	"fmt"
	"strings"

	"github.com/mikey/email-triage/internal/adapters/lexicon"
	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/adapters/resilient"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
	"go.uber.org/zap"
)

// ScorerFactory creates the external label scorer
type ScorerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewScorerFactory creates a new scorer factory
func NewScorerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ScorerFactory {
	return &ScorerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a scorer based on the configuration. The "none"
// provider returns a nil scorer and the model classifier runs on keywords
// alone. Remote providers are wrapped with a timeout, rate limit and breaker.
func (f *ScorerFactory) CreateScorer() (core.Scorer, error) {
	provider := strings.ToLower(f.cfg.GetScorer().Provider)

	var remote core.Scorer
	var err error
	switch provider {
	case "none", "":
		f.logger.Info("No external scorer configured")
		return nil, nil
	case "lexicon":
		return lexicon.NewScorer(f.logger), nil
	case "openai":
		remote, err = NewOpenAIFactory(f.cfg, f.logger, f.prompts(f.cfg.GetOpenAI().MaxBodySize)).CreateScorer()
	case "gemini":
		remote, err = NewGeminiFactory(f.cfg, f.logger, f.prompts(f.cfg.GetGemini().MaxBodySize)).CreateScorer()
	case "bedrock":
		remote, err = NewBedrockFactory(f.cfg, f.logger, f.prompts(f.cfg.GetBedrock().MaxBodySize)).CreateScorer()
	case "anthropic":
		remote, err = NewAnthropicFactory(f.cfg, f.logger, f.prompts(f.cfg.GetAnthropic().MaxBodySize)).CreateScorer()
	default:
		return nil, fmt.Errorf("unsupported scorer provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	limits, err := f.cfg.GetResilience()
	if err != nil {
		return nil, err
	}

	f.logger.Info("Using external scorer",
		zap.String("provider", provider),
		zap.Duration("timeout", limits.Timeout),
		zap.Float64("rate_limit", limits.RateLimit))

	return resilient.NewScorer(remote, resilient.Options{
		Timeout:     limits.Timeout,
		RateLimit:   limits.RateLimit,
		Burst:       limits.Burst,
		MaxFailures: limits.MaxFailures,
		OpenTimeout: limits.OpenTimeout,
	}, f.logger), nil
}

func (f *ScorerFactory) prompts(maxBodySize int) *prompt.Builder {
	return prompt.NewBuilder(f.textProcessor, maxBodySize)
}
