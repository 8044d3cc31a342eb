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


// Package analysis relates a topic to stored opinions and summarizes them.
//
// # Flow
//
//  1. Load every opinion from the store
//  2. Select opinions whose similarity to the topic exceeds the threshold
//  3. Rank by score and keep the top K
//  4. Classify each kept opinion, one paced call at a time
//  5. Summarize the classified opinions into a conclusion (also paced)
//
// A failure at any step ends the run with that error. Classifications made
// before the failure are discarded and nothing is written to the store.
//
// # Usage
//
//	analyzer, err := analysis.NewAnalyzer(store, matcher, client,
//	    analysis.WithPacer(pacing.New(time.Second)))
//	report, err := analyzer.AnalyzeTopic(ctx, key, analysis.SaveConclusion())
//	report.Render(os.Stdout)
package analysis
