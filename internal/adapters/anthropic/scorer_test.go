package anthropic

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mikey/email-triage/internal/adapters/prompt"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessages struct {
	params sdk.MessageNewParams
	msg    *sdk.Message
	err    error
}

func (f *fakeMessages) New(_ context.Context, body sdk.MessageNewParams, _ ...option.RequestOption) (*sdk.Message, error) {
	f.params = body
	return f.msg, f.err
}

var labels = []core.LabelDescription{
	{Name: "Invoices Request", Description: "asks for invoices"},
	{Name: "Manual Review", Description: "needs a human"},
}

func newScorer(client MessageClient) *Scorer {
	logger := zap.NewNop()
	return NewScorer(client, "claude-3-5-haiku-latest", 256, 0, prompt.NewBuilder(utils.NewTextProcessor(logger), 1000), logger)
}

func TestRank(t *testing.T) {
	fake := &fakeMessages{msg: &sdk.Message{
		ID: "msg_1",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: `{"scores":[{"label":"Manual Review","score":0.2},{"label":"Invoices Request","score":0.85}]}`},
		},
	}}

	scores, err := newScorer(fake).Rank(context.Background(), "send the invoice copy", labels)

	require.NoError(t, err)
	assert.Equal(t, "Invoices Request", scores[0].Label)
	assert.Equal(t, sdk.Model("claude-3-5-haiku-latest"), fake.params.Model)
	assert.Equal(t, int64(256), fake.params.MaxTokens)
	require.Len(t, fake.params.System, 1)
	assert.Equal(t, prompt.System, fake.params.System[0].Text)
}

func TestRankErrors(t *testing.T) {
	_, err := newScorer(&fakeMessages{err: errors.New("overloaded")}).Rank(context.Background(), "x", labels)
	assert.ErrorContains(t, err, "failed to create message")

	_, err = newScorer(&fakeMessages{msg: &sdk.Message{}}).Rank(context.Background(), "x", labels)
	assert.ErrorContains(t, err, "empty response")
}
