package storage

import (
	"context"

	"github.com/poiesic/digitalpulse/core"
)

// RecordStore holds the three record collections.
//
// Every mutating call persists before returning; a persistence failure is
// returned wrapped with core.ErrPersistence and the mutation is not visible
// afterwards. Implementations serialize their own access but make no
// guarantee across processes: a store directory has a single writer.
type RecordStore interface {
	// AddOpinion appends an opinion and returns its new id.
	// topicID, opinionType and effectiveness may be empty.
	AddOpinion(ctx context.Context, text, topicID, opinionType, effectiveness string) (string, error)

	// AddTopic appends a topic and returns its generated natural key.
	// Empty topicType and effectiveness fall back to core defaults.
	AddTopic(ctx context.Context, text, topicType, effectiveness string) (string, error)

	// AddConclusion appends a conclusion for topicKey and returns its new id.
	// The topic is not required to exist.
	AddConclusion(ctx context.Context, topicKey, text, conclusionType, effectiveness string) (string, error)

	// GetTopicByKey returns the topic with the given natural key.
	// Returns an error wrapping core.ErrNotFound if there is none.
	GetTopicByKey(ctx context.Context, key string) (*core.Topic, error)

	// GetOpinionsByTopicID returns opinions linked to topicID in insertion order.
	GetOpinionsByTopicID(ctx context.Context, topicID string) ([]*core.Opinion, error)

	// GetConclusionByTopicID returns the first stored conclusion for topicID.
	// Returns an error wrapping core.ErrNotFound if there is none.
	GetConclusionByTopicID(ctx context.Context, topicID string) (*core.Conclusion, error)

	// UpdateOpinionMetadata overwrites topic_id, type and effectiveness of the
	// opinion with the given id. Empty effectiveness becomes the default.
	// Returns false, and changes nothing, if no opinion has that id.
	UpdateOpinionMetadata(ctx context.Context, id, topicID, opinionType, effectiveness string) (bool, error)

	// Topics returns all topics in insertion order.
	Topics(ctx context.Context) ([]*core.Topic, error)

	// Opinions returns all opinions in insertion order.
	Opinions(ctx context.Context) ([]*core.Opinion, error)

	// Conclusions returns all conclusions in insertion order.
	Conclusions(ctx context.Context) ([]*core.Conclusion, error)

	// Stats counts the records in each collection.
	Stats(ctx context.Context) (core.Stats, error)

	// Close releases the store.
	Close() error
}
