// Package embed wraps the Genkit embedder behind a small gate that enforces
// the input and dimension constraints shared by every vector consumer.
package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/genai"
)

// VectorDimension is the embedding dimension used across all pgvector columns.
// gemini-embedding-001 natively produces 3072 dimensions; we request
// truncation to 768 via OutputDimensionality (Matryoshka Representation
// Learning). Changing this requires a schema migration.
const VectorDimension int32 = 768

// MaxInputChars caps embedding input. Longer text is truncated, never
// rejected, so an oversized chunk degrades instead of failing.
const MaxInputChars = 512

// ErrEmbedding indicates the embedding provider returned an error or an
// empty response.
var ErrEmbedding = errors.New("embedding failed")

// Gate produces fixed-dimension embeddings from text.
//
// Gate is safe for concurrent use by multiple goroutines.
type Gate struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewGate creates an embedding gate around the given embedder.
func NewGate(embedder ai.Embedder, logger *slog.Logger) (*Gate, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{embedder: embedder, logger: logger}, nil
}

// Embed generates a vector embedding for the given text.
// Text longer than MaxInputChars is truncated at a rune boundary first.
func (g *Gate) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	if text == "" {
		return pgvector.Vector{}, fmt.Errorf("%w: empty input", ErrEmbedding)
	}

	truncated := Truncate(text)
	if len(truncated) < len(text) {
		g.logger.Debug("embedding input truncated",
			"original_len", len(text), "truncated_len", len(truncated))
	}

	dim := VectorDimension
	resp, err := g.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(truncated, nil)},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, fmt.Errorf("%w: empty response", ErrEmbedding)
	}

	vec := resp.Embeddings[0].Embedding
	if len(vec) != int(VectorDimension) {
		return pgvector.Vector{}, fmt.Errorf("%w: got %d dimensions, want %d",
			ErrEmbedding, len(vec), VectorDimension)
	}

	return pgvector.NewVector(vec), nil
}

// Truncate cuts text to at most MaxInputChars bytes without splitting a rune.
func Truncate(text string) string {
	if len(text) <= MaxInputChars {
		return text
	}
	cut := MaxInputChars
	// Back up past UTF-8 continuation bytes.
	for cut > 0 && text[cut]&0xC0 == 0x80 {
		cut--
	}
	return text[:cut]
}
