package metrics

import (
	"context"

	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/storage"
)

// InstrumentStore wraps store so every mutation is counted.
func InstrumentStore(store storage.RecordStore, m *Metrics) storage.RecordStore {
	return &instrumentedStore{RecordStore: store, m: m}
}

type instrumentedStore struct {
	storage.RecordStore
	m *Metrics
}

func (s *instrumentedStore) AddOpinion(ctx context.Context, text, topicID, opinionType, effectiveness string) (string, error) {
	id, err := s.RecordStore.AddOpinion(ctx, text, topicID, opinionType, effectiveness)
	s.m.observeMutation("add_"+string(core.KindOpinion), err)
	return id, err
}

func (s *instrumentedStore) AddTopic(ctx context.Context, text, topicType, effectiveness string) (string, error) {
	key, err := s.RecordStore.AddTopic(ctx, text, topicType, effectiveness)
	s.m.observeMutation("add_"+string(core.KindTopic), err)
	return key, err
}

func (s *instrumentedStore) AddConclusion(ctx context.Context, topicKey, text, conclusionType, effectiveness string) (string, error) {
	id, err := s.RecordStore.AddConclusion(ctx, topicKey, text, conclusionType, effectiveness)
	s.m.observeMutation("add_"+string(core.KindConclusion), err)
	return id, err
}

func (s *instrumentedStore) UpdateOpinionMetadata(ctx context.Context, id, topicID, opinionType, effectiveness string) (bool, error) {
	ok, err := s.RecordStore.UpdateOpinionMetadata(ctx, id, topicID, opinionType, effectiveness)
	s.m.observeMutation("update_"+string(core.KindOpinion), err)
	return ok, err
}
