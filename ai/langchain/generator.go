package langchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/digitalpulse/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoChoices is returned when the model answers without any choice.
var ErrNoChoices = errors.New("model returned no choices")

// Generator implements ai.Generator on any langchaingo llms.Model.
type Generator struct {
	model       llms.Model
	temperature float64
	logger      *slog.Logger
}

// NewGenerator wraps an existing langchaingo model.
func NewGenerator(model llms.Model, temperature float64) *Generator {
	return &Generator{
		model:       model,
		temperature: temperature,
		logger:      slog.Default().With("component", "llm-generator"),
	}
}

// NewOpenAIGenerator creates a generator for an OpenAI-compatible chat server.
func NewOpenAIGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = noAuthToken
	}
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(token),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, fmt.Errorf("openai chat client: %w", err)
	}

	return NewGenerator(client, config.Temperature), nil
}

// NewGoogleAIGenerator creates a generator backed by a Gemini model.
func NewGoogleAIGenerator(ctx context.Context, config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}

	return NewGenerator(client, config.Temperature), nil
}

// Generate sends prompt as a single human message and returns the first choice.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := g.model.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", ErrNoChoices
	}

	return response.Choices[0].Content, nil
}
