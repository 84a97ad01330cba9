// Package knowledge implements retrieval over the two knowledge sources:
// the synced official documentation and the crowdsourced Q&A archive.
//
// A Searcher wraps one source with the shared vector-first, keyword-fallback
// retrieval strategy. Base fans out to both searchers and merges the results
// under source priority weights and context budgets.
package knowledge

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pgvector/pgvector-go"
)

// Embedder produces query vectors. *embed.Gate satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

// Index is one searchable knowledge source.
// Interfaces are defined by the consumer, so docs.Store and qa.Index
// implement this without importing each other.
type Index interface {
	// VectorSearch returns the nearest chunks by cosine distance, ascending.
	VectorSearch(ctx context.Context, query pgvector.Vector, limit int) ([]Result, error)

	// KeywordSearch returns chunks whose content matches the given
	// case-insensitive regular expression, in storage order.
	KeywordSearch(ctx context.Context, pattern string, limit int) ([]Result, error)
}

// Searcher retrieves from a single Index, preferring vector search and
// degrading to keyword matching when the vector path fails.
//
// Searcher is safe for concurrent use by multiple goroutines.
type Searcher struct {
	index    Index
	embedder Embedder
	logger   *slog.Logger
	name     string
}

// NewSearcher creates a Searcher over the given index.
// name appears in degradation logs to tell the two sources apart.
func NewSearcher(name string, index Index, embedder Embedder, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{index: index, embedder: embedder, logger: logger, name: name}
}

// Search retrieves up to limit results for the query.
//
// Search never returns an error: an embedding or vector-search failure falls
// back to keyword matching, and a keyword failure degrades to an empty slice.
// All failures are logged.
func (s *Searcher) Search(ctx context.Context, query string, limit int) []Result {
	if query == "" || limit <= 0 {
		return nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err == nil {
		results, verr := s.index.VectorSearch(ctx, vec, limit)
		if verr == nil {
			return results
		}
		s.logger.Warn("vector search failed, falling back to keyword search",
			"source", s.name, "error", verr)
	} else {
		s.logger.Warn("query embedding failed, falling back to keyword search",
			"source", s.name, "error", err)
	}

	return s.keywordFallback(ctx, query, limit)
}

func (s *Searcher) keywordFallback(ctx context.Context, query string, limit int) []Result {
	pattern, ok := KeywordPattern(query)
	if !ok {
		return nil
	}

	results, err := s.index.KeywordSearch(ctx, pattern, limit)
	if err != nil {
		s.logger.Warn("keyword search failed", "source", s.name, "error", err)
		return nil
	}

	// Synthetic ordinal scores so fallback results still sort deterministically.
	for i := range results {
		results[i].Score = float64(i) * 0.1
	}
	return results
}

// KeywordPattern builds a case-insensitive alternation pattern from the
// query's words. Words of 2 characters or fewer are dropped as noise.
// Returns false when no usable words remain.
func KeywordPattern(query string) (string, bool) {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(word) > 2 {
			keywords = append(keywords, regexp.QuoteMeta(word))
		}
	}
	if len(keywords) == 0 {
		return "", false
	}
	return strings.Join(keywords, "|"), true
}
