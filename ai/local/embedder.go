// Package local provides an offline embedder that needs no model server.
//
// Vectors are built with the hashing trick: every lower-cased word and word
// bigram is hashed with BLAKE2b into one of a fixed number of buckets, with a
// hash-derived sign, and the result is scaled to unit length. Texts sharing
// vocabulary land close together; it is a lexical, not semantic, similarity.
package local

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/digitalpulse/ai"
)

// ErrInvalidDimensions is returned for a non-positive vector size.
var ErrInvalidDimensions = errors.New("dimensions must be greater than 0")

// Embedder is a deterministic feature-hashing embedder.
type Embedder struct {
	dims   int
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder producing vectors of the given size.
func NewEmbedder(dims int) (*Embedder, error) {
	if dims <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Embedder{
		dims:   dims,
		logger: slog.Default().With("component", "local-embedder"),
	}, nil
}

// Dimensions returns the vector size.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// EmbedText embeds a single text. Text without any word yields a zero vector.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text)
}

// EmbedTexts embeds texts in order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("embedding texts", "count", len(texts))
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := e.embed(text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Embedder) embed(text string) ([]float32, error) {
	vector := make([]float32, e.dims)

	words := tokenize(text)
	for i, w := range words {
		if err := e.add(vector, w); err != nil {
			return nil, err
		}
		if i > 0 {
			if err := e.add(vector, words[i-1]+" "+w); err != nil {
				return nil, err
			}
		}
	}

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(1 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}
	return vector, nil
}

// add hashes a feature into its bucket.
func (e *Embedder) add(vector []float32, feature string) error {
	h, err := blake2b.New(8, nil) // 8 bytes = 64 bits
	if err != nil {
		return err
	}
	h.Write([]byte(feature))
	sum := binary.LittleEndian.Uint64(h.Sum(nil))

	bucket := int(sum % uint64(e.dims))
	if (sum>>63)&1 == 1 {
		vector[bucket]--
	} else {
		vector[bucket]++
	}
	return nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
