package matcher

import (
	"math"
	"sort"
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|), computed in float64.
// Vectors of different length, or with zero norm, have similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank returns a copy of matches sorted by descending score, truncated to k.
// Equal scores keep their index order. k <= 0 disables truncation.
func Rank(matches []Match, k int) []Match {
	ranked := make([]Match, len(matches))
	copy(ranked, matches)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
