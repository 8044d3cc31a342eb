package storage

import (
	"github.com/poiesic/digitalpulse/core"
)

// Columns is the fixed persisted field order for every collection.
var Columns = []string{"id", "topic_id", "text", "type", "effectiveness"}

// NewOpinion validates input and builds an opinion with a fresh id.
// Backends share this so defaults and validation match.
func NewOpinion(text, topicID, opinionType, effectiveness string) (*core.Opinion, error) {
	if err := core.ValidateText(text); err != nil {
		return nil, err
	}
	return &core.Opinion{Record: core.Record{
		ID:            core.NewRecordID(),
		TopicID:       topicID,
		Text:          text,
		Type:          opinionType,
		Effectiveness: effectiveness,
	}}, nil
}

// NewTopic validates input and builds a topic with a fresh id and natural key.
func NewTopic(text, topicType, effectiveness string) (*core.Topic, error) {
	if err := core.ValidateText(text); err != nil {
		return nil, err
	}
	return &core.Topic{Record: core.Record{
		ID:            core.NewRecordID(),
		TopicID:       core.NewTopicKey(),
		Text:          text,
		Type:          orDefault(topicType, core.DefaultTopicType),
		Effectiveness: orDefault(effectiveness, core.DefaultEffectiveness),
	}}, nil
}

// NewConclusion validates input and builds a conclusion with a fresh id.
func NewConclusion(topicKey, text, conclusionType, effectiveness string) (*core.Conclusion, error) {
	if err := core.ValidateTopicKey(topicKey); err != nil {
		return nil, err
	}
	if err := core.ValidateText(text); err != nil {
		return nil, err
	}
	return &core.Conclusion{Record: core.Record{
		ID:            core.NewRecordID(),
		TopicID:       topicKey,
		Text:          text,
		Type:          orDefault(conclusionType, core.DefaultConclusionType),
		Effectiveness: orDefault(effectiveness, core.DefaultEffectiveness),
	}}, nil
}

// ApplyOpinionMetadata overwrites the three mutable opinion fields.
func ApplyOpinionMetadata(o *core.Opinion, topicID, opinionType, effectiveness string) {
	o.TopicID = topicID
	o.Type = opinionType
	o.Effectiveness = orDefault(effectiveness, core.DefaultEffectiveness)
}

// ToRow flattens a record into Columns order.
func ToRow(r core.Record) []string {
	return []string{r.ID, r.TopicID, r.Text, r.Type, r.Effectiveness}
}

// FromRow is the inverse of ToRow. The row must have len(Columns) fields.
func FromRow(row []string) core.Record {
	return core.Record{
		ID:            row[0],
		TopicID:       row[1],
		Text:          row[2],
		Type:          row[3],
		Effectiveness: row[4],
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
