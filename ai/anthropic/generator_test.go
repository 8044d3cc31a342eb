package anthropic

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/poiesic/digitalpulse/ai"
	"github.com/poiesic/digitalpulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessages struct {
	reply *sdk.Message
	err   error
	got   sdk.MessageNewParams
}

func (f *fakeMessages) New(_ context.Context, body sdk.MessageNewParams, _ ...option.RequestOption) (*sdk.Message, error) {
	f.got = body
	return f.reply, f.err
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first text block", func(t *testing.T) {
		fake := &fakeMessages{reply: &sdk.Message{
			Content: []sdk.ContentBlockUnion{{Type: "text", Text: "Rebuttal"}},
		}}
		gen := newGenerator(fake, sdk.Model("claude-haiku-4-5"), 0)

		reply, err := gen.Generate(ctx, "Classify the following text")
		require.NoError(t, err)
		assert.Equal(t, "Rebuttal", reply)
		assert.Equal(t, sdk.Model("claude-haiku-4-5"), fake.got.Model)
		assert.Equal(t, int64(defaultMaxTokens), fake.got.MaxTokens)
		require.Len(t, fake.got.Messages, 1)
	})

	t.Run("empty content", func(t *testing.T) {
		gen := newGenerator(&fakeMessages{reply: &sdk.Message{}}, sdk.Model("m"), 0)
		_, err := gen.Generate(ctx, "prompt")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("api error", func(t *testing.T) {
		boom := errors.New("overloaded")
		gen := newGenerator(&fakeMessages{err: boom}, sdk.Model("m"), 0)
		_, err := gen.Generate(ctx, "prompt")
		assert.ErrorIs(t, err, boom)
	})
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	cfg := ai.NewConfig(ai.WithGeneratorProvider(ai.ProviderAnthropic))

	_, err := NewGenerator(cfg)
	assert.ErrorIs(t, err, core.ErrMissingCredential)
}
