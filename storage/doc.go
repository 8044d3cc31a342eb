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


// Package storage provides the storage abstraction layer for digitalpulse.
//
// RecordStore decouples the topic, opinion and conclusion collections from the
// backend holding them. Two backends exist:
//
//   - flatfile: three CSV files rewritten in full on every mutation
//   - badger: an embedded key-value store, with an in-memory mode for tests
//
// # Usage
//
//	store, err := flatfile.Open("./data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	key, err := store.AddTopic(ctx, "Should schools require uniforms?", "", "")
//
// # Records
//
// Every collection shares the five column layout in Columns. NewTopic,
// NewOpinion and NewConclusion build validated records with defaults applied;
// backends call them so behavior matches regardless of where records live.
//
// # Concurrency
//
// Each store serializes its own operations. Nothing coordinates separate
// processes sharing one data directory; run a single writer.
package storage
