package docsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pgvector/pgvector-go"

	"github.com/popup-studio-ai/bkit-guide/internal/docs"
)

// Embedder produces chunk vectors. *embed.Gate satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

// ChunkWriter replaces the document store's contents. *docs.Store satisfies it.
type ChunkWriter interface {
	ReplaceAll(ctx context.Context, chunks []docs.Chunk) error
}

// Report is the outcome of one sync run.
//
// Success reflects whether the overall replace completed, not whether every
// file was fetched; per-file failures accumulate in Errors.
type Report struct {
	Success        bool     `json:"success"`
	FilesProcessed int      `json:"filesProcessed"`
	ChunksIndexed  int      `json:"chunksIndexed"`
	Errors         []string `json:"errors"`
}

// Syncer rebuilds the documentation index from the source repository.
type Syncer struct {
	fetcher  Fetcher
	embedder Embedder
	writer   ChunkWriter
	logger   *slog.Logger
}

// NewSyncer creates a documentation syncer.
func NewSyncer(fetcher Fetcher, embedder Embedder, writer ChunkWriter, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{fetcher: fetcher, embedder: embedder, writer: writer, logger: logger}
}

// Sync fetches, chunks, and embeds every configured file, then replaces the
// whole index with the chunks that succeeded.
//
// The replace is deliberately destructive: files that failed to fetch are
// simply absent from the new index. A sync where most files fail therefore
// still replaces the index with a near-empty one. The replace itself is a
// single transaction, so a storage failure leaves the previous index intact.
func (s *Syncer) Sync(ctx context.Context) *Report {
	report := &Report{Errors: []string{}}
	var chunks []docs.Chunk

	for _, path := range FilesToIndex {
		content, err := s.fetcher.FetchFile(ctx, path)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to fetch: %s", path))
			s.logger.Warn("documentation file fetch failed", "path", path, "error", err)
			continue
		}
		report.FilesProcessed++

		category := CategoryForPath(path)
		for i, text := range ChunkContent(content) {
			if len(text) < 10 {
				continue
			}

			vec, err := s.embedder.Embed(ctx, text)
			if err != nil {
				report.Errors = append(report.Errors,
					fmt.Sprintf("Embedding error for %s chunk %d: %v", path, i, err))
				continue
			}

			chunks = append(chunks, docs.Chunk{
				ID:         fmt.Sprintf("%s-%d", path, i),
				Content:    text,
				Source:     path,
				Category:   category,
				ChunkIndex: i,
				Embedding:  vec,
			})
			report.ChunksIndexed++
		}
	}

	if err := s.writer.ReplaceAll(ctx, chunks); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Sync error: %v", err))
		s.logger.Error("documentation index replace failed", "error", err)
		return report
	}

	report.Success = true
	s.logger.Info("documentation sync completed",
		"files", report.FilesProcessed,
		"chunks", report.ChunksIndexed,
		"errors", len(report.Errors))
	return report
}
