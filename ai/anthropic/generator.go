// Package anthropic implements ai.Generator with the Anthropic Messages API.
// Anthropic offers no embedding endpoint; pair it with another embedder.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/poiesic/digitalpulse/ai"
)

const defaultMaxTokens = 1024

// ErrEmptyResponse is returned when a message comes back without content.
var ErrEmptyResponse = errors.New("no response from anthropic")

// messageSender is the subset of the SDK used here.
type messageSender interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Generator sends prompts as a single user message.
type Generator struct {
	messages    messageSender
	model       sdk.Model
	temperature float64
	maxTokens   int64
	logger      *slog.Logger
}

// NewGenerator creates a generator for the configured model.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := sdk.NewClient(option.WithAPIKey(config.APIKey))

	return newGenerator(&client.Messages, sdk.Model(config.GeneratorModel), config.Temperature), nil
}

func newGenerator(messages messageSender, model sdk.Model, temperature float64) *Generator {
	return &Generator{
		messages:    messages,
		model:       model,
		temperature: temperature,
		maxTokens:   defaultMaxTokens,
		logger:      slog.Default().With("component", "anthropic-generator"),
	}
}

// Generate returns the text of the first content block of the reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.messages.New(ctx, sdk.MessageNewParams{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: sdk.Float(g.temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		g.logger.Error("anthropic API error", "model", g.model, "err", err)
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Content[0].Text, nil
}
