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


// Package flatfile implements storage.RecordStore over three CSV files.
//
// The whole store is held in memory. Every mutation rewrites all three files,
// each through a temporary file renamed into place. A missing directory or
// file loads as an empty collection.
package flatfile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/storage"
)

// File names inside the data directory.
const (
	TopicsFile      = "topics.csv"
	OpinionsFile    = "opinions.csv"
	ConclusionsFile = "conclusions.csv"
)

// Store is a CSV-backed RecordStore.
type Store struct {
	dir    string
	logger *slog.Logger

	mu          sync.RWMutex
	closed      bool
	topics      []*core.Topic
	opinions    []*core.Opinion
	conclusions []*core.Conclusion
}

var _ storage.RecordStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the store from dir. The directory is created on first save.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:    dir,
		logger: slog.Default().With("component", "flatfile"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", core.ErrPersistence, dir, err)
	}
	s.logger.Debug("store loaded", "dir", dir,
		"topics", len(s.topics), "opinions", len(s.opinions), "conclusions", len(s.conclusions))
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) AddOpinion(ctx context.Context, text, topicID, opinionType, effectiveness string) (string, error) {
	opinion, err := storage.NewOpinion(text, topicID, opinionType, effectiveness)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return "", err
	}

	s.opinions = append(s.opinions, opinion)
	if err := s.save(); err != nil {
		s.opinions = s.opinions[:len(s.opinions)-1]
		return "", err
	}
	return opinion.ID, nil
}

func (s *Store) AddTopic(ctx context.Context, text, topicType, effectiveness string) (string, error) {
	topic, err := storage.NewTopic(text, topicType, effectiveness)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return "", err
	}

	s.topics = append(s.topics, topic)
	if err := s.save(); err != nil {
		s.topics = s.topics[:len(s.topics)-1]
		return "", err
	}
	return topic.Key(), nil
}

func (s *Store) AddConclusion(ctx context.Context, topicKey, text, conclusionType, effectiveness string) (string, error) {
	conclusion, err := storage.NewConclusion(topicKey, text, conclusionType, effectiveness)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return "", err
	}

	s.conclusions = append(s.conclusions, conclusion)
	if err := s.save(); err != nil {
		s.conclusions = s.conclusions[:len(s.conclusions)-1]
		return "", err
	}
	return conclusion.ID, nil
}

func (s *Store) GetTopicByKey(ctx context.Context, key string) (*core.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	for _, t := range s.topics {
		if t.Key() == key {
			c := *t
			return &c, nil
		}
	}
	return nil, core.NotFound(core.KindTopic, key)
}

func (s *Store) GetOpinionsByTopicID(ctx context.Context, topicID string) ([]*core.Opinion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	out := make([]*core.Opinion, 0)
	for _, o := range s.opinions {
		if o.TopicID == topicID {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) GetConclusionByTopicID(ctx context.Context, topicID string) (*core.Conclusion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var found *core.Conclusion
	matches := 0
	for _, c := range s.conclusions {
		if c.TopicID == topicID {
			if found == nil {
				found = c
			}
			matches++
		}
	}
	if found == nil {
		return nil, core.NotFound(core.KindConclusion, topicID)
	}
	if matches > 1 {
		s.logger.Debug("multiple conclusions for topic, using first", "topic", topicID, "count", matches)
	}
	c := *found
	return &c, nil
}

func (s *Store) UpdateOpinionMetadata(ctx context.Context, id, topicID, opinionType, effectiveness string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return false, err
	}

	for _, o := range s.opinions {
		if o.ID != id {
			continue
		}
		previous := o.Record
		storage.ApplyOpinionMetadata(o, topicID, opinionType, effectiveness)
		if err := s.save(); err != nil {
			o.Record = previous
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *Store) Topics(ctx context.Context) ([]*core.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	out := make([]*core.Topic, len(s.topics))
	for i, t := range s.topics {
		c := *t
		out[i] = &c
	}
	return out, nil
}

func (s *Store) Opinions(ctx context.Context) ([]*core.Opinion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	out := make([]*core.Opinion, len(s.opinions))
	for i, o := range s.opinions {
		c := *o
		out[i] = &c
	}
	return out, nil
}

func (s *Store) Conclusions(ctx context.Context) ([]*core.Conclusion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	out := make([]*core.Conclusion, len(s.conclusions))
	for i, c := range s.conclusions {
		cc := *c
		out[i] = &cc
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (core.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return core.Stats{}, err
	}
	return core.Stats{
		Topics:      len(s.topics),
		Opinions:    len(s.opinions),
		Conclusions: len(s.conclusions),
	}, nil
}

// Close marks the store closed. Data is already on disk.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// check must be called with mu held.
func (s *Store) check(ctx context.Context) error {
	if s.closed {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}
