package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestOpen_MissingDirectory(t *testing.T) {
	s, dir := openTemp(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Stats{}, stats)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "directory is only created on first save")
}

func TestAddOpinion_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	s, dir := openTemp(t)

	text := `Uniforms, "honestly", reduce
bullying.`
	id, err := s.AddOpinion(ctx, text, "", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	for _, name := range []string{TopicsFile, OpinionsFile, ConclusionsFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	reloaded, err := Open(dir)
	require.NoError(t, err)
	opinions, err := reloaded.Opinions(ctx)
	require.NoError(t, err)
	require.Len(t, opinions, 1)
	assert.Equal(t, id, opinions[0].ID)
	assert.Equal(t, text, opinions[0].Text)
	assert.Empty(t, opinions[0].TopicID)
}

func TestAddOpinion_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := s.AddOpinion(ctx, "same text", "", "", "")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAddOpinion_Validation(t *testing.T) {
	ctx := context.Background()
	s, dir := openTemp(t)

	_, err := s.AddOpinion(ctx, "  \n", "", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "validation failure must not write")
}

func TestTopicsAndConclusions(t *testing.T) {
	ctx := context.Background()
	s, dir := openTemp(t)

	key, err := s.AddTopic(ctx, "Should schools require uniforms?", "", "")
	require.NoError(t, err)

	topic, err := s.GetTopicByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Should schools require uniforms?", topic.Text)
	assert.Equal(t, core.DefaultTopicType, topic.Type)
	assert.Equal(t, core.DefaultEffectiveness, topic.Effectiveness)
	assert.NotEqual(t, topic.ID, topic.Key())

	_, err = s.GetTopicByKey(ctx, "NOPE")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = s.GetConclusionByTopicID(ctx, key)
	assert.ErrorIs(t, err, core.ErrNotFound)

	first, err := s.AddConclusion(ctx, key, "First summary.", "", "")
	require.NoError(t, err)
	_, err = s.AddConclusion(ctx, key, "Second summary.", "", "Effective")
	require.NoError(t, err)

	reloaded, err := Open(dir)
	require.NoError(t, err)
	c, err := reloaded.GetConclusionByTopicID(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, first, c.ID)
	assert.Equal(t, core.DefaultConclusionType, c.Type)

	topics, err := reloaded.Topics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, key, topics[0].Key())
}

func TestGetOpinionsByTopicID_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	var want []string
	for _, text := range []string{"one", "two", "three"} {
		id, err := s.AddOpinion(ctx, text, "KEY", "", "")
		require.NoError(t, err)
		want = append(want, id)
		_, err = s.AddOpinion(ctx, "other "+text, "OTHER", "", "")
		require.NoError(t, err)
	}

	opinions, err := s.GetOpinionsByTopicID(ctx, "KEY")
	require.NoError(t, err)
	var got []string
	for _, o := range opinions {
		got = append(got, o.ID)
	}
	assert.Equal(t, want, got)

	none, err := s.GetOpinionsByTopicID(ctx, "MISSING")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateOpinionMetadata(t *testing.T) {
	ctx := context.Background()
	s, dir := openTemp(t)

	id, err := s.AddOpinion(ctx, "Uniforms reduce bullying.", "", "", "")
	require.NoError(t, err)

	t.Run("missing id leaves store unchanged", func(t *testing.T) {
		before, err := os.ReadFile(filepath.Join(dir, OpinionsFile))
		require.NoError(t, err)

		ok, err := s.UpdateOpinionMetadata(ctx, "doesnotexist", "KEY", "Claim", "")
		require.NoError(t, err)
		assert.False(t, ok)

		after, err := os.ReadFile(filepath.Join(dir, OpinionsFile))
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("existing id overwrites three fields", func(t *testing.T) {
		ok, err := s.UpdateOpinionMetadata(ctx, id, "KEY", "Evidence", "")
		require.NoError(t, err)
		assert.True(t, ok)

		reloaded, err := Open(dir)
		require.NoError(t, err)
		opinions, err := reloaded.Opinions(ctx)
		require.NoError(t, err)
		require.Len(t, opinions, 1)
		assert.Equal(t, core.Record{
			ID:            id,
			TopicID:       "KEY",
			Text:          "Uniforms reduce bullying.",
			Type:          "Evidence",
			Effectiveness: core.DefaultEffectiveness,
		}, opinions[0].Record)
		assert.Equal(t, core.Evidence, opinions[0].Category())
	})
}

func TestSaveFailure(t *testing.T) {
	ctx := context.Background()
	s, dir := openTemp(t)

	// a regular file where the data directory should be
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	_, err := s.AddOpinion(ctx, "text", "", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistence)

	opinions, err := s.Opinions(ctx)
	require.NoError(t, err)
	assert.Empty(t, opinions, "failed mutation must not be visible")
}

func TestOpen_SchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, OpinionsFile), []byte("a,b,c,d,e\n"), 0o644))

	_, err := Open(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.ErrorIs(t, err, storage.ErrSchemaMismatch)
}

func TestOpen_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TopicsFile), nil, 0o644))

	s, err := Open(dir)
	require.NoError(t, err)
	topics, err := s.Topics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestClosedStore(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Close())

	_, err := s.AddTopic(context.Background(), "topic", "", "")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	_, err := s.AddOpinion(ctx, "original", "", "", "")
	require.NoError(t, err)

	opinions, err := s.Opinions(ctx)
	require.NoError(t, err)
	opinions[0].Text = "mutated"

	again, err := s.Opinions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Text)
}
