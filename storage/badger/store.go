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


package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/storage"
)

// Store implements storage.RecordStore on BadgerDB.
//
// Records live under a per-collection prefix followed by a shared sequence
// number. Topic keys and opinion ids are indexed to their primary keys.
type Store struct {
	backend *Backend
	seq     *badger.Sequence
	ownsDB  bool
	closed  atomic.Bool

	// mu serializes writers so sequence allocation and commit stay in order.
	mu sync.Mutex
}

var _ storage.RecordStore = (*Store)(nil)

// NewStore creates a record store on an open backend. The caller keeps
// ownership of the backend.
func NewStore(backend *Backend) (*Store, error) {
	seq, err := backend.GetSequence(recordSequenceKey)
	if err != nil {
		return nil, err
	}
	return &Store{backend: backend, seq: seq}, nil
}

// Open opens a badger database at path and returns a store owning it.
func Open(path string, opts ...Option) (*Store, error) {
	o := &openOptions{}
	for _, opt := range opts {
		opt(o)
	}

	backend, err := OpenBackend(path, o.inMemory, o.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}
	s, err := NewStore(backend)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}
	s.ownsDB = true
	return s, nil
}

// Close releases the sequence, and the database if the store opened it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return nil
	}
	err := s.seq.Release()
	if s.ownsDB {
		err = errors.Join(err, s.backend.Close())
	}
	return err
}

func (s *Store) AddOpinion(ctx context.Context, text, topicID, opinionType, effectiveness string) (string, error) {
	opinion, err := storage.NewOpinion(text, topicID, opinionType, effectiveness)
	if err != nil {
		return "", err
	}
	err = s.insert(ctx, core.KindOpinion, opinion.Record, makeIndexKey(opinionIDIndex, opinion.ID))
	if err != nil {
		return "", err
	}
	return opinion.ID, nil
}

func (s *Store) AddTopic(ctx context.Context, text, topicType, effectiveness string) (string, error) {
	topic, err := storage.NewTopic(text, topicType, effectiveness)
	if err != nil {
		return "", err
	}
	err = s.insert(ctx, core.KindTopic, topic.Record, makeIndexKey(topicKeyIndex, topic.Key()))
	if err != nil {
		return "", err
	}
	return topic.Key(), nil
}

func (s *Store) AddConclusion(ctx context.Context, topicKey, text, conclusionType, effectiveness string) (string, error) {
	conclusion, err := storage.NewConclusion(topicKey, text, conclusionType, effectiveness)
	if err != nil {
		return "", err
	}
	if err := s.insert(ctx, core.KindConclusion, conclusion.Record, nil); err != nil {
		return "", err
	}
	return conclusion.ID, nil
}

// insert writes record under the next sequence number, plus an optional
// index entry pointing at it.
func (s *Store) insert(ctx context.Context, kind core.Kind, record core.Record, indexKey []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		next, err := s.seq.Next()
		if err != nil {
			return err
		}
		key := makeRecordKey(kind, next)
		if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
			return err
		}
		if indexKey != nil {
			if err := tx.Set(indexKey, key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %w", core.ErrPersistence, kind, err)
	}
	return nil
}

func (s *Store) GetTopicByKey(ctx context.Context, key string) (*core.Topic, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var record *core.Record
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = readIndexed(tx, makeIndexKey(topicKeyIndex, key))
		return err
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}
	if record == nil {
		return nil, core.NotFound(core.KindTopic, key)
	}
	return &core.Topic{Record: *record}, nil
}

func (s *Store) GetOpinionsByTopicID(ctx context.Context, topicID string) ([]*core.Opinion, error) {
	return s.opinionsMatching(ctx, func(r core.Record) bool { return r.TopicID == topicID })
}

func (s *Store) GetConclusionByTopicID(ctx context.Context, topicID string) (*core.Conclusion, error) {
	records, err := s.scan(ctx, core.KindConclusion, func(r core.Record) bool { return r.TopicID == topicID })
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, core.NotFound(core.KindConclusion, topicID)
	}
	if len(records) > 1 {
		s.backend.logger.Debug("multiple conclusions for topic, using first", "topic", topicID, "count", len(records))
	}
	return &core.Conclusion{Record: records[0]}, nil
}

func (s *Store) UpdateOpinionMetadata(ctx context.Context, id, topicID, opinionType, effectiveness string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return false, err
	}

	found := false
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		primary, err := getValue(tx, makeIndexKey(opinionIDIndex, id))
		if err != nil || primary == nil {
			return err
		}
		value, err := getValue(tx, primary)
		if err != nil || value == nil {
			return err
		}
		record, err := storage.UnmarshalRecord(value)
		if err != nil {
			return err
		}

		opinion := &core.Opinion{Record: record}
		storage.ApplyOpinionMetadata(opinion, topicID, opinionType, effectiveness)
		if err := tx.Set(primary, storage.MarshalRecord(opinion.Record)); err != nil {
			return err
		}
		found = true
		return tx.Commit()
	}, true)
	if err != nil {
		return false, fmt.Errorf("%w: update opinion %s: %w", core.ErrPersistence, id, err)
	}
	return found, nil
}

func (s *Store) Topics(ctx context.Context) ([]*core.Topic, error) {
	records, err := s.scan(ctx, core.KindTopic, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Topic, len(records))
	for i, r := range records {
		out[i] = &core.Topic{Record: r}
	}
	return out, nil
}

func (s *Store) Opinions(ctx context.Context) ([]*core.Opinion, error) {
	return s.opinionsMatching(ctx, nil)
}

// opinionsMatching returns opinions accepted by keep, in insertion order.
// A nil keep returns all opinions.
func (s *Store) opinionsMatching(ctx context.Context, keep func(core.Record) bool) ([]*core.Opinion, error) {
	records, err := s.scan(ctx, core.KindOpinion, keep)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Opinion, len(records))
	for i, r := range records {
		out[i] = &core.Opinion{Record: r}
	}
	return out, nil
}

func (s *Store) Conclusions(ctx context.Context) ([]*core.Conclusion, error) {
	records, err := s.scan(ctx, core.KindConclusion, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Conclusion, len(records))
	for i, r := range records {
		out[i] = &core.Conclusion{Record: r}
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (core.Stats, error) {
	if err := s.check(ctx); err != nil {
		return core.Stats{}, err
	}

	var stats core.Stats
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		counts := []struct {
			kind core.Kind
			dst  *int
		}{
			{core.KindTopic, &stats.Topics},
			{core.KindOpinion, &stats.Opinions},
			{core.KindConclusion, &stats.Conclusions},
		}
		for _, c := range counts {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(collectionPrefix(c.kind))
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)
			for iter.Rewind(); iter.Valid(); iter.Next() {
				*c.dst++
			}
			iter.Close()
		}
		return nil
	}, false)
	if err != nil {
		return core.Stats{}, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}
	return stats, nil
}

// scan iterates one collection in key order.
func (s *Store) scan(ctx context.Context, kind core.Kind, keep func(core.Record) bool) ([]core.Record, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	records := make([]core.Record, 0)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(collectionPrefix(kind))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record core.Record
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if keep == nil || keep(record) {
				records = append(records, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %w", core.ErrPersistence, kind, err)
	}
	return records, nil
}

func (s *Store) check(ctx context.Context) error {
	if s.closed.Load() || s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}

// readIndexed follows an index entry to its record. Returns nil if either is missing.
func readIndexed(tx *badger.Txn, indexKey []byte) (*core.Record, error) {
	primary, err := getValue(tx, indexKey)
	if err != nil || primary == nil {
		return nil, err
	}
	value, err := getValue(tx, primary)
	if err != nil || value == nil {
		return nil, err
	}
	record, err := storage.UnmarshalRecord(value)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// getValue returns a copy of the value at key, or nil if absent.
func getValue(tx *badger.Txn, key []byte) ([]byte, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
