// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/digitalpulse/core"
)

// Provider names accepted in Config.
const (
	// ProviderOpenAI talks to any OpenAI-compatible server (OpenAI, Ollama, vLLM, LocalAI).
	ProviderOpenAI = "openai"
	// ProviderGoogleAI talks to the Gemini API.
	ProviderGoogleAI = "googleai"
	// ProviderAnthropic talks to the Anthropic Messages API. Generation only.
	ProviderAnthropic = "anthropic"
	// ProviderLocal is the offline hashing embedder. Embeddings only.
	ProviderLocal = "local"
)

// Default model names per provider, used when a model is not configured.
const (
	DefaultOpenAIEmbeddingModel = "all-minilm"
	DefaultOpenAIGeneratorModel = "qwen2.5:3b"
	DefaultGoogleEmbeddingModel = "text-embedding-004"
	DefaultGoogleGeneratorModel = "gemini-2.0-flash"
	DefaultAnthropicModel       = "claude-haiku-4-5"
	DefaultLocalDimensions      = 384
	defaultHost                 = "http://localhost:11434/v1"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingProvider selects the embedding backend: openai, googleai or local.
	EmbeddingProvider string

	// EmbeddingHost is the base URL for an OpenAI-compatible embedding API.
	// Example: "http://localhost:11434/v1" for a local Ollama server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-minilm", "text-embedding-3-small"
	EmbeddingModel string

	// EmbeddingDimensions is the vector size produced by the local embedder.
	EmbeddingDimensions int

	// GeneratorProvider selects the generative backend: openai, googleai or anthropic.
	GeneratorProvider string

	// GeneratorHost is the base URL for an OpenAI-compatible chat API.
	GeneratorHost string

	// GeneratorModel is the model identifier used for classification and summaries.
	// Example: "gemini-2.0-flash", "qwen2.5:3b"
	GeneratorModel string

	// APIKey authenticates against hosted services. Required for googleai and
	// anthropic; optional for OpenAI-compatible servers.
	APIKey string

	// Temperature is passed to the generative model. Default: 0
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingProvider sets the embedding backend.
func WithEmbeddingProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingProvider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingDimensions sets the vector size of the local embedder.
func WithEmbeddingDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimensions = dims
	}
}

// WithGeneratorProvider sets the generative backend.
func WithGeneratorProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.GeneratorProvider = provider
	}
}

// WithGeneratorHost sets the generative service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithGeneratorModel sets the generative model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// WithHost sets both embedding and generator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GeneratorHost = host
	}
}

// WithAPIKey sets the credential for hosted services.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTemperature sets the sampling temperature of the generative model.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// DefaultConfig returns a Config targeting a local OpenAI-compatible server for
// both embeddings and generation. Model names are left empty so Normalize can
// pick the default of whichever provider ends up selected.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingProvider:   ProviderOpenAI,
		EmbeddingHost:       defaultHost,
		EmbeddingDimensions: DefaultLocalDimensions,
		GeneratorProvider:   ProviderOpenAI,
		GeneratorHost:       defaultHost,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithGeneratorProvider(ProviderGoogleAI),
//       WithGeneratorModel("gemini-2.0-flash"),
//       WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Provider names are lower-cased, OpenAI-compatible hosts get their /v1 suffix
// and empty model names are filled with the provider default.
func (c *Config) Normalize() {
	c.EmbeddingProvider = strings.ToLower(strings.TrimSpace(c.EmbeddingProvider))
	c.GeneratorProvider = strings.ToLower(strings.TrimSpace(c.GeneratorProvider))

	if c.EmbeddingProvider == ProviderOpenAI {
		c.EmbeddingHost = withV1(c.EmbeddingHost)
	}
	if c.GeneratorProvider == ProviderOpenAI {
		c.GeneratorHost = withV1(c.GeneratorHost)
	}

	if c.EmbeddingModel == "" {
		switch c.EmbeddingProvider {
		case ProviderOpenAI:
			c.EmbeddingModel = DefaultOpenAIEmbeddingModel
		case ProviderGoogleAI:
			c.EmbeddingModel = DefaultGoogleEmbeddingModel
		}
	}
	if c.GeneratorModel == "" {
		switch c.GeneratorProvider {
		case ProviderOpenAI:
			c.GeneratorModel = DefaultOpenAIGeneratorModel
		case ProviderGoogleAI:
			c.GeneratorModel = DefaultGoogleGeneratorModel
		case ProviderAnthropic:
			c.GeneratorModel = DefaultAnthropicModel
		}
	}
}

func withV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// A hosted provider without an API key fails with core.ErrMissingCredential.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.EmbeddingProvider {
	case ProviderOpenAI:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
	case ProviderGoogleAI:
		if c.APIKey == "" {
			return fmt.Errorf("ai config: %w: %w for embedding provider %s", core.ErrValidation, core.ErrMissingCredential, c.EmbeddingProvider)
		}
	case ProviderLocal:
		if c.EmbeddingDimensions <= 0 {
			return errors.New("ai config: EmbeddingDimensions must be greater than 0")
		}
	default:
		return fmt.Errorf("ai config: unknown embedding provider %q", c.EmbeddingProvider)
	}

	switch c.GeneratorProvider {
	case ProviderOpenAI:
		if c.GeneratorHost == "" {
			return errors.New("ai config: GeneratorHost is required")
		}
	case ProviderGoogleAI, ProviderAnthropic:
		if c.APIKey == "" {
			return fmt.Errorf("ai config: %w: %w for generator provider %s", core.ErrValidation, core.ErrMissingCredential, c.GeneratorProvider)
		}
	default:
		return fmt.Errorf("ai config: unknown generator provider %q", c.GeneratorProvider)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	return nil
}
