package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// MessageClient is the part of the Anthropic SDK the scorer uses
type MessageClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// NewMessageClient builds an SDK message client for an API key
func NewMessageClient(apiKey string) MessageClient {
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return &client.Messages
}

// Scorer ranks labels with the Anthropic Messages API
type Scorer struct {
	client      MessageClient
	modelName   string
	maxTokens   int64
	temperature float64
	prompts     *prompt.Builder
	logger      *zap.Logger
}

// NewScorer creates a new Anthropic scorer
func NewScorer(
	client MessageClient,
	modelName string,
	maxTokens int,
	temperature float64,
	prompts *prompt.Builder,
	logger *zap.Logger,
) *Scorer {
	return &Scorer{
		client:      client,
		modelName:   modelName,
		maxTokens:   int64(maxTokens),
		temperature: temperature,
		prompts:     prompts,
		logger:      logger,
	}
}

// Name returns the scorer name
func (s *Scorer) Name() string {
	return "anthropic"
}

// Rank asks the model to score each label
func (s *Scorer) Rank(ctx context.Context, text string, labels []core.LabelDescription) ([]core.LabelScore, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(s.modelName),
		MaxTokens:   s.maxTokens,
		System:      []sdk.TextBlockParam{{Text: prompt.System}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(s.prompts.Build(text, labels)))},
		Temperature: sdk.Float(s.temperature),
	}

	msg, err := s.client.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create message with Anthropic: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return nil, errors.New("empty response from Anthropic")
	}

	s.logger.Debug("Anthropic ranked labels",
		zap.String("model", s.modelName),
		zap.String("message_id", msg.ID),
		zap.Int64("output_tokens", msg.Usage.OutputTokens))

	return prompt.Parse(b.String(), labels)
}
