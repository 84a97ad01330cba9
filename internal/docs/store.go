// Package docs stores and searches the documentation chunks synced from the
// official bkit repository.
package docs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
)

// Chunk is one indexed slice of a documentation file.
type Chunk struct {
	ID         string // "<source>-<chunk_index>"
	Content    string
	Source     string // file path within the docs repository
	Category   string
	ChunkIndex int
	Embedding  pgvector.Vector
}

// Stats summarizes the documentation index.
type Stats struct {
	TotalChunks int64            `json:"totalChunks"`
	ByCategory  map[string]int64 `json:"byCategory"`
	LastSync    *time.Time       `json:"lastSync,omitempty"`
}

// Store manages documentation chunks in PostgreSQL + pgvector.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a documentation store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// ReplaceAll deletes every existing chunk and inserts the given ones in a
// single transaction. A failed sync therefore leaves the previous index
// intact rather than half-replaced.
func (s *Store) ReplaceAll(ctx context.Context, chunks []Chunk) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM doc_chunks`); err != nil {
		return fmt.Errorf("clearing doc chunks: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(`
			INSERT INTO doc_chunks (id, content, source, category, chunk_index, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())`,
			c.ID, c.Content, c.Source, c.Category, c.ChunkIndex, c.Embedding)
	}
	results := tx.SendBatch(ctx, batch)
	for range chunks {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("inserting doc chunk: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing doc chunks: %w", err)
	}

	s.logger.Info("documentation index replaced", "chunks", len(chunks))
	return nil
}

// VectorSearch returns the nearest chunks by cosine distance, ascending.
func (s *Store) VectorSearch(ctx context.Context, query pgvector.Vector, limit int) ([]knowledge.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT content, source, category, embedding <=> $1 AS distance
		FROM doc_chunks
		WHERE embedding IS NOT NULL
		ORDER BY distance
		LIMIT $2`,
		query, limit)
	if err != nil {
		return nil, fmt.Errorf("doc vector search: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// KeywordSearch returns chunks whose content matches the case-insensitive
// regular expression, in storage order. Scores are zero; the caller assigns
// ordinal scores.
func (s *Store) KeywordSearch(ctx context.Context, pattern string, limit int) ([]knowledge.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT content, source, category, 0::float8 AS distance
		FROM doc_chunks
		WHERE content ~* $1
		LIMIT $2`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("doc keyword search: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResults(rows pgx.Rows) ([]knowledge.Result, error) {
	var results []knowledge.Result
	for rows.Next() {
		var r knowledge.Result
		if err := rows.Scan(&r.Content, &r.Reference, &r.Category, &r.Score); err != nil {
			return nil, fmt.Errorf("scanning doc chunk: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading doc chunks: %w", err)
	}
	return results, nil
}

// Stats returns index totals, per-category counts, and the last sync time.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByCategory: make(map[string]int64)}

	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM doc_chunks`).Scan(&stats.TotalChunks); err != nil {
		return nil, fmt.Errorf("counting doc chunks: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT category, count(*) FROM doc_chunks GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("counting doc chunks by category: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading category counts: %w", err)
	}

	var last *time.Time
	err = s.pool.QueryRow(ctx,
		`SELECT max(created_at) FROM doc_chunks`).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("reading last sync time: %w", err)
	}
	stats.LastSync = last

	return stats, nil
}
