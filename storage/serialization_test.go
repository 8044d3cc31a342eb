package storage

import (
	"testing"

	"github.com/poiesic/digitalpulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRecord(t *testing.T) {
	tests := []struct {
		name   string
		record core.Record
	}{
		{"empty record", core.Record{}},
		{
			name: "opinion with nullable fields unset",
			record: core.Record{
				ID:   "a1b2c3d4e5f6",
				Text: "Uniforms reduce bullying.",
			},
		},
		{
			name: "fully populated",
			record: core.Record{
				ID:            "0123456789ab",
				TopicID:       "ABCDEF012345",
				Text:          "Text with, commas \"quotes\"\nand newlines, ünïcödé",
				Type:          "Counterclaim",
				Effectiveness: "Adequate",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRecord(tt.record)
			require.NotEmpty(t, data)
			assert.Equal(t, RecordMUS.Size(tt.record), len(data))

			decoded, err := UnmarshalRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)

			n, err := RecordMUS.Skip(data)
			require.NoError(t, err)
			assert.Equal(t, len(data), n)
		})
	}
}

func TestUnmarshalRecord_Invalid(t *testing.T) {
	full := MarshalRecord(core.Record{ID: "abc", Text: "hello world"})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", full[:len(full)-3]},
		{"trailing bytes", append(append([]byte{}, full...), 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRecord(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestRecordConstructors(t *testing.T) {
	t.Run("topic defaults", func(t *testing.T) {
		topic, err := NewTopic("Should schools require uniforms?", "", "")
		require.NoError(t, err)
		assert.Equal(t, core.DefaultTopicType, topic.Type)
		assert.Equal(t, core.DefaultEffectiveness, topic.Effectiveness)
		assert.Len(t, topic.ID, 12)
		assert.Len(t, topic.Key(), 12)
		assert.NotEqual(t, topic.ID, topic.Key())
	})

	t.Run("opinion keeps nullable fields empty", func(t *testing.T) {
		opinion, err := NewOpinion("Uniforms reduce bullying.", "", "", "")
		require.NoError(t, err)
		assert.Empty(t, opinion.TopicID)
		assert.Empty(t, opinion.Type)
		assert.Empty(t, opinion.Effectiveness)
	})

	t.Run("conclusion defaults", func(t *testing.T) {
		c, err := NewConclusion("ABC123ABC123", "A summary.", "", "")
		require.NoError(t, err)
		assert.Equal(t, core.DefaultConclusionType, c.Type)
		assert.Equal(t, "ABC123ABC123", c.TopicID)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewOpinion("   ", "", "", "")
		assert.ErrorIs(t, err, core.ErrValidation)
		_, err = NewTopic("", "", "")
		assert.ErrorIs(t, err, core.ErrEmptyText)
		_, err = NewConclusion("", "text", "", "")
		assert.ErrorIs(t, err, core.ErrEmptyTopicKey)
	})

	t.Run("metadata update defaults effectiveness", func(t *testing.T) {
		o := &core.Opinion{Record: core.Record{ID: "x", Text: "t", Effectiveness: "Ineffective"}}
		ApplyOpinionMetadata(o, "KEY", "Evidence", "")
		assert.Equal(t, core.Record{ID: "x", TopicID: "KEY", Text: "t", Type: "Evidence", Effectiveness: core.DefaultEffectiveness}, o.Record)
	})

	t.Run("row round trip", func(t *testing.T) {
		r := core.Record{ID: "1", TopicID: "2", Text: "3", Type: "4", Effectiveness: "5"}
		row := ToRow(r)
		assert.Len(t, row, len(Columns))
		assert.Equal(t, r, FromRow(row))
	})
}
