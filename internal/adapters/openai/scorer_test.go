package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChat struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

var labels = []core.LabelDescription{
	{Name: "Manual Review", Description: "needs a human"},
	{Name: "Payments Claim", Description: "says it was paid"},
}

func newScorer(chat ChatClient) *Scorer {
	logger := zap.NewNop()
	return NewScorer(chat, "gpt-4o-mini", 256, 0, 0.9, prompt.NewBuilder(utils.NewTextProcessor(logger), 1000), logger)
}

func TestRank(t *testing.T) {
	chat := &fakeChat{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{
			Content: `{"scores":[{"label":"Payments Claim","score":0.8},{"label":"Manual Review","score":0.1}]}`,
		}}},
	}}

	scores, err := newScorer(chat).Rank(context.Background(), "we paid last week", labels)

	require.NoError(t, err)
	assert.Equal(t, "Payments Claim", scores[0].Label)
	assert.Equal(t, "gpt-4o-mini", chat.req.Model)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, chat.req.ResponseFormat.Type)
	require.Len(t, chat.req.Messages, 2)
	assert.Contains(t, chat.req.Messages[1].Content, "we paid last week")
}

func TestRankErrors(t *testing.T) {
	_, err := newScorer(&fakeChat{err: errors.New("401")}).Rank(context.Background(), "x", labels)
	assert.ErrorContains(t, err, "failed to create chat completion")

	_, err = newScorer(&fakeChat{}).Rank(context.Background(), "x", labels)
	assert.ErrorContains(t, err, "empty response")
}
