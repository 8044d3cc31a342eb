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


// Package matcher selects opinions related to a topic.
//
// The topic is embedded once and the opinions as a single batch with the same
// embedder. Each opinion is scored by cosine similarity against the topic and
// kept only when its score is strictly greater than the threshold; a score equal
// to the threshold is excluded. Matches come back in input order. Sorting by
// score and keeping the best K is a separate step, Rank, so callers decide how
// many matches to act on.
//
// Search is brute force over the provided texts. There is no vector index.
package matcher
