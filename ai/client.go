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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/digitalpulse/core"
)

// ErrGeneratorRequired is returned when a Client is built without a Generator.
var ErrGeneratorRequired = errors.New("generator required")

// Client classifies opinions and summarizes classified opinions into a
// conclusion, using a Generator for the remote calls.
// Calls are single-shot: failures are wrapped with core.ErrRemoteService and
// returned without retry.
type Client struct {
	generator Generator
	logger    *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithClientLogger sets a custom logger.
// Default is slog.Default().
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a classification and summarization client.
func NewClient(generator Generator, opts ...ClientOption) (*Client, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	c := &Client{
		generator: generator,
		logger:    slog.Default().With("component", "ai-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Classify asks the model for the rhetorical category of text.
// The result is always one of the four categories, even when the reply is noisy.
func (c *Client) Classify(ctx context.Context, text string) (core.Category, error) {
	if err := core.ValidateText(text); err != nil {
		return "", err
	}

	reply, err := c.generator.Generate(ctx, BuildClassificationPrompt(text))
	if err != nil {
		c.logger.Error("classification call failed", "err", err)
		return "", fmt.Errorf("%w: classify: %w", core.ErrRemoteService, err)
	}

	category := ParseCategoryReply(reply)
	if strings.TrimSpace(reply) != string(category) {
		c.logger.Debug("classifier reply was not an exact label", "reply", reply, "category", category)
	}
	return category, nil
}

// Summarize asks the model for a short conclusion about topic given the
// classified opinions, in the order given. The trimmed reply is returned as is.
func (c *Client) Summarize(ctx context.Context, topic string, opinions []ClassifiedOpinion) (string, error) {
	if err := core.ValidateText(topic); err != nil {
		return "", err
	}

	reply, err := c.generator.Generate(ctx, BuildConclusionPrompt(topic, opinions))
	if err != nil {
		c.logger.Error("summarization call failed", "opinions", len(opinions), "err", err)
		return "", fmt.Errorf("%w: summarize: %w", core.ErrRemoteService, err)
	}
	return strings.TrimSpace(reply), nil
}
