package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestNewEmbedder(t *testing.T) {
	_, err := NewEmbedder(0)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	e, err := NewEmbedder(64)
	require.NoError(t, err)
	assert.Equal(t, 64, e.Dimensions())
}

func TestEmbedText(t *testing.T) {
	ctx := context.Background()
	e, err := NewEmbedder(384)
	require.NoError(t, err)

	t.Run("unit length", func(t *testing.T) {
		v, err := e.EmbedText(ctx, "Uniforms reduce bullying in schools.")
		require.NoError(t, err)
		require.Len(t, v, 384)
		assert.InDelta(t, 1.0, math.Sqrt(dot(v, v)), 1e-5)
	})

	t.Run("deterministic and case insensitive", func(t *testing.T) {
		a, err := e.EmbedText(ctx, "School uniforms")
		require.NoError(t, err)
		b, err := e.EmbedText(ctx, "school UNIFORMS!")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("shared vocabulary scores higher", func(t *testing.T) {
		topic, _ := e.EmbedText(ctx, "should schools require uniforms")
		near, _ := e.EmbedText(ctx, "schools should require uniforms for students")
		far, _ := e.EmbedText(ctx, "I had pizza for lunch")
		assert.Greater(t, dot(topic, near), dot(topic, far))
	})

	t.Run("no words gives zero vector", func(t *testing.T) {
		v, err := e.EmbedText(ctx, " ... ")
		require.NoError(t, err)
		assert.Zero(t, dot(v, v))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := e.EmbedText(cctx, "text")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEmbedTexts(t *testing.T) {
	ctx := context.Background()
	e, err := NewEmbedder(32)
	require.NoError(t, err)

	texts := []string{"alpha", "beta", "alpha"}
	vectors, err := e.EmbedTexts(ctx, texts)
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, vectors[0], vectors[2])
	for _, v := range vectors {
		assert.Len(t, v, 32)
	}

	empty, err := e.EmbedTexts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
