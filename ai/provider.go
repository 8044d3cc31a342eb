package ai

import (
	"errors"
	"io"
	"log/slog"
)

// Provider pairs an Embedder with a Generator. The two may come from different
// backends, e.g. a local embedding server with a hosted generative model.
type Provider struct {
	embedder  Embedder
	generator Generator
	logger    *slog.Logger
}

var _ AIProvider = (*Provider)(nil)

// NewProvider combines an embedder and a generator into an AIProvider.
// Components implementing io.Closer are closed by Close.
func NewProvider(embedder Embedder, generator Generator) (AIProvider, error) {
	if embedder == nil {
		return nil, errors.New("embedder required")
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	return &Provider{
		embedder:  embedder,
		generator: generator,
		logger:    slog.Default().With("component", "ai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() Embedder {
	return p.embedder
}

// Generator returns the generative model.
func (p *Provider) Generator() Generator {
	return p.generator
}

// Close releases resources held by the underlying services.
func (p *Provider) Close() error {
	p.logger.Debug("closing AI provider")
	var errs []error
	if c, ok := p.embedder.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := p.generator.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
