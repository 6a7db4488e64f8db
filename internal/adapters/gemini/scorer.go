package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Generator is the part of a Gemini model the scorer uses
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Scorer ranks labels with a Gemini model
type Scorer struct {
	model     Generator
	closer    io.Closer
	modelName string
	prompts   *prompt.Builder
	logger    *zap.Logger
}

// NewClient connects to Gemini and configures a JSON-only model
func NewClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
) (*genai.Client, *genai.GenerativeModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}

	return client, model, nil
}

// NewScorer creates a new Gemini scorer. closer may be nil.
func NewScorer(model Generator, closer io.Closer, modelName string, prompts *prompt.Builder, logger *zap.Logger) *Scorer {
	return &Scorer{
		model:     model,
		closer:    closer,
		modelName: modelName,
		prompts:   prompts,
		logger:    logger,
	}
}

// Name returns the scorer name
func (s *Scorer) Name() string {
	return "gemini"
}

// Close closes the Gemini client
func (s *Scorer) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Rank asks the model to score each label
func (s *Scorer) Rank(ctx context.Context, text string, labels []core.LabelDescription) ([]core.LabelScore, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(s.prompts.Build(text, labels)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	responseText := firstText(resp)
	if responseText == "" {
		return nil, errors.New("empty response from Gemini")
	}

	s.logger.Debug("Gemini ranked labels", zap.String("model", s.modelName))
	return prompt.Parse(responseText, labels)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
