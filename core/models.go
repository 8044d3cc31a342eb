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


package core

import (
	"strings"

	"github.com/google/uuid"
)

// Defaults applied by the record store when the caller leaves a field empty.
const (
	DefaultTopicType      = "Position"
	DefaultConclusionType = "Concluding Statement"
	DefaultEffectiveness  = "Adequate"
)

// idLength is the number of hex characters kept from a generated UUID.
const idLength = 12

// Kind tags which collection a record belongs to.
type Kind string

const (
	KindTopic      Kind = "topic"
	KindOpinion    Kind = "opinion"
	KindConclusion Kind = "conclusion"
)

// Record holds the fields shared by every stored entity.
// Nullable columns are represented by the empty string.
type Record struct {
	ID            string `json:"id"`
	TopicID       string `json:"topic_id"`
	Text          string `json:"text"`
	Type          string `json:"type"`
	Effectiveness string `json:"effectiveness"`
}

// Topic is a statement around which opinions are organized.
// TopicID carries the topic's own natural key, distinct from ID.
type Topic struct {
	Record
}

// Key returns the human-facing natural key of the topic.
func (t *Topic) Key() string {
	return t.TopicID
}

// Kind returns KindTopic.
func (t *Topic) Kind() Kind { return KindTopic }

// Opinion is a free-text statement, optionally linked to a topic and classified.
type Opinion struct {
	Record
}

// Category returns the opinion's rhetorical category, or "" if it is unclassified
// or holds a value outside the known set.
func (o *Opinion) Category() Category {
	c, err := ParseCategory(o.Type)
	if err != nil {
		return ""
	}
	return c
}

// Kind returns KindOpinion.
func (o *Opinion) Kind() Kind { return KindOpinion }

// Conclusion is a synthesized summary statement for a topic.
type Conclusion struct {
	Record
}

// Kind returns KindConclusion.
func (c *Conclusion) Kind() Kind { return KindConclusion }

// Stats reports the size of each collection.
type Stats struct {
	Topics      int `json:"topics"`
	Opinions    int `json:"opinions"`
	Conclusions int `json:"conclusions"`
}

// NewRecordID returns a fresh row identifier: the first 12 hex characters of a
// random UUID, lower case.
func NewRecordID() string {
	return shortUUID()
}

// NewTopicKey returns a fresh topic natural key. It is generated independently
// of the row ID and rendered in upper case.
func NewTopicKey() string {
	return strings.ToUpper(shortUUID())
}

func shortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:idLength]
}
