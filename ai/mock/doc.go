// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Fixed vectors for known texts
//	embedder := mock.NewFixedEmbedder(map[string][]float32{
//	    "topic": {1, 0},
//	    "close": {0.9, 0.1},
//	})
//
//	// Replies in order
//	generator := mock.NewScriptedGenerator("Claim", "Evidence", "A conclusion.")
//
//	// Check call counts
//	count := generator.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockGenerator: Replies "Claim" to classification prompts, a fixed sentence otherwise
//   - MockProvider: Aggregates mock embedder and generator
package mock
