package digitalpulse

import (
	"context"
	"fmt"

	"github.com/poiesic/digitalpulse/ai"
	"github.com/poiesic/digitalpulse/ai/anthropic"
	"github.com/poiesic/digitalpulse/ai/langchain"
	"github.com/poiesic/digitalpulse/ai/local"
)

// NewEmbedder builds the embedder selected by config.EmbeddingProvider.
func NewEmbedder(ctx context.Context, config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.EmbeddingProvider {
	case ai.ProviderOpenAI:
		return langchain.NewOpenAIEmbedder(config)
	case ai.ProviderGoogleAI:
		return langchain.NewGoogleAIEmbedder(ctx, config)
	case ai.ProviderLocal:
		e, err := local.NewEmbedder(config.EmbeddingDimensions)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("unsupported embedding provider %q", config.EmbeddingProvider)
}

// NewGenerator builds the generator selected by config.GeneratorProvider.
func NewGenerator(ctx context.Context, config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.GeneratorProvider {
	case ai.ProviderOpenAI:
		return langchain.NewOpenAIGenerator(config)
	case ai.ProviderGoogleAI:
		return langchain.NewGoogleAIGenerator(ctx, config)
	case ai.ProviderAnthropic:
		return anthropic.NewGenerator(config)
	}
	return nil, fmt.Errorf("unsupported generator provider %q", config.GeneratorProvider)
}
