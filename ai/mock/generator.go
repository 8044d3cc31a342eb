package mock

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockGenerator is a test double for ai.Generator.
// Without GenerateFunc it answers classification prompts with "Claim" and
// any other prompt with a fixed conclusion.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
	times   []time.Time
}

// DefaultConclusion is the reply of the default behavior for non-classification prompts.
const DefaultConclusion = "Opinions on this topic are divided."

// NewMockGenerator creates a mock generator with default behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// NewScriptedGenerator returns a mock that replies with the given answers in
// order. Once exhausted it repeats the last answer.
func NewScriptedGenerator(replies ...string) *MockGenerator {
	m := &MockGenerator{}
	var next int
	var mu sync.Mutex
	m.GenerateFunc = func(_ context.Context, _ string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(replies) == 0 {
			return "", nil
		}
		i := next
		if i >= len(replies) {
			i = len(replies) - 1
		}
		next++
		return replies[i], nil
	}
	return m
}

// Generate records the prompt and returns the configured reply.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.times = append(m.times, time.Now())
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	if strings.HasPrefix(prompt, "Classify the following text") {
		return "Claim", nil
	}
	return DefaultConclusion, nil
}

// CallCount returns the number of Generate calls.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns every prompt received, in call order.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// CallTimes returns when each call started, in call order.
func (m *MockGenerator) CallTimes() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Time, len(m.times))
	copy(out, m.times)
	return out
}

// Reset clears recorded calls and injected behavior.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
	m.times = nil
	m.GenerateFunc = nil
}
