package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"scale invariant", []float32{1, 1}, []float32{5, 5}, 1},
		{"zero norm", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1, 0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRank(t *testing.T) {
	matches := []Match{
		{Text: "a", Score: 0.86, Index: 0},
		{Text: "b", Score: 0.95, Index: 1},
		{Text: "c", Score: 0.90, Index: 2},
		{Text: "d", Score: 0.95, Index: 3},
	}

	t.Run("sorts descending with stable ties", func(t *testing.T) {
		ranked := Rank(matches, 0)
		got := make([]int, len(ranked))
		for i, m := range ranked {
			got[i] = m.Index
		}
		assert.Equal(t, []int{1, 3, 2, 0}, got)
	})

	t.Run("truncates to k", func(t *testing.T) {
		ranked := Rank(matches, 2)
		assert.Len(t, ranked, 2)
		assert.Equal(t, "b", ranked[0].Text)
		assert.Equal(t, "d", ranked[1].Text)
	})

	t.Run("k larger than input", func(t *testing.T) {
		assert.Len(t, Rank(matches, DefaultTopK), 4)
	})

	t.Run("does not modify input", func(t *testing.T) {
		_ = Rank(matches, 1)
		assert.Equal(t, "a", matches[0].Text)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Rank(nil, DefaultTopK))
	})
}
