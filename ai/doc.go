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


// Package ai provides abstractions for the AI services used by DigitalPulse.
//
// Two remote capabilities are modelled:
//
//   - Embedder: converts text into fixed-dimension vectors
//   - Generator: sends a prompt to a generative model and returns the raw reply
//
// Client builds on a Generator to classify opinions into one of the four
// rhetorical categories and to summarize classified opinions into a conclusion.
// The prompts and the reply parsing live here so every provider behaves the same.
//
// # Implementation Packages
//
//   - ai/langchain: OpenAI-compatible servers and Gemini through langchaingo
//   - ai/anthropic: Anthropic Messages API (generation only)
//   - ai/local: offline feature-hashing embedder
//   - ai/mock: test doubles
//
// Public constructors return interface types. Mock constructors return concrete
// types so tests can inject behavior and inspect call counts.
package ai
