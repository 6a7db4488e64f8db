package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatClient is the part of the OpenAI client the scorer uses
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Scorer ranks labels with an OpenAI chat model in JSON mode
type Scorer struct {
	client      ChatClient
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	prompts     *prompt.Builder
	logger      *zap.Logger
}

// NewScorer creates a new OpenAI scorer
func NewScorer(
	client ChatClient,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	prompts *prompt.Builder,
	logger *zap.Logger,
) *Scorer {
	return &Scorer{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		prompts:     prompts,
		logger:      logger,
	}
}

// Name returns the scorer name
func (s *Scorer) Name() string {
	return "openai"
}

// Rank asks the model to score each label
func (s *Scorer) Rank(ctx context.Context, text string, labels []core.LabelDescription) ([]core.LabelScore, error) {
	req := openai.ChatCompletionRequest{
		Model: s.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: s.prompts.Build(text, labels),
			},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		TopP:        s.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}

	s.logger.Debug("OpenAI ranked labels",
		zap.String("model", s.modelName),
		zap.String("request_id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return prompt.Parse(resp.Choices[0].Message.Content, labels)
}
