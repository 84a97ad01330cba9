package qa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
)

// Embedder produces vectors for archive rows. *embed.Gate satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

// IndexStats summarizes the archive's vector index.
type IndexStats struct {
	TotalIndexed int64            `json:"totalIndexed"`
	ByCategory   map[string]int64 `json:"byCategory"`
	ByLanguage   map[string]int64 `json:"byLanguage"`
}

// Index maintains the vector index over archived records.
// Rows are denormalized copies of the record fields so retrieval never joins
// back to qa_records.
//
// Index is safe for concurrent use by multiple goroutines.
type Index struct {
	pool     *pgxpool.Pool
	embedder Embedder
	logger   *slog.Logger
}

// NewIndex creates an archive index.
func NewIndex(pool *pgxpool.Pool, embedder Embedder, logger *slog.Logger) (*Index, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{pool: pool, embedder: embedder, logger: logger}, nil
}

// EmbedText is the text embedded for a record: question and answer combined,
// with the labels the archive has always used.
func EmbedText(question, answer string) string {
	return "질문: " + question + "\n\n답변: " + answer
}

// Upsert embeds the record and writes its index row.
// At most one row exists per record; re-indexing overwrites it.
func (x *Index) Upsert(ctx context.Context, rec *Record) error {
	vec, err := x.embedder.Embed(ctx, EmbedText(rec.Question, rec.Answer))
	if err != nil {
		return fmt.Errorf("embedding qa record %s: %w", rec.ID, err)
	}

	_, err = x.pool.Exec(ctx, `
		INSERT INTO qa_embeddings (qa_id, question, answer, category, language, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (qa_id) DO UPDATE SET
			question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			category = EXCLUDED.category,
			language = EXCLUDED.language,
			embedding = EXCLUDED.embedding`,
		rec.ID, rec.Question, rec.Answer, rec.Category, rec.Language, vec)
	if err != nil {
		return fmt.Errorf("upserting qa embedding %s: %w", rec.ID, err)
	}

	x.logger.Debug("qa record indexed", "id", rec.ID)
	return nil
}

// Delete removes a record's index row. Missing rows are not an error.
func (x *Index) Delete(ctx context.Context, id string) error {
	if _, err := x.pool.Exec(ctx,
		`DELETE FROM qa_embeddings WHERE qa_id = $1`, id); err != nil {
		return fmt.Errorf("deleting qa embedding %s: %w", id, err)
	}
	return nil
}

// VectorSearch returns the nearest archived pairs by cosine distance.
func (x *Index) VectorSearch(ctx context.Context, query pgvector.Vector, limit int) ([]knowledge.Result, error) {
	rows, err := x.pool.Query(ctx, `
		SELECT qa_id, question, answer, category, embedding <=> $1 AS distance
		FROM qa_embeddings
		ORDER BY distance
		LIMIT $2`,
		query, limit)
	if err != nil {
		return nil, fmt.Errorf("qa vector search: %w", err)
	}
	defer rows.Close()

	return x.scanResults(rows)
}

// KeywordSearch matches the pattern against questions and answers.
func (x *Index) KeywordSearch(ctx context.Context, pattern string, limit int) ([]knowledge.Result, error) {
	rows, err := x.pool.Query(ctx, `
		SELECT qa_id, question, answer, category, 0::float8 AS distance
		FROM qa_embeddings
		WHERE question ~* $1 OR answer ~* $1
		LIMIT $2`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("qa keyword search: %w", err)
	}
	defer rows.Close()

	return x.scanResults(rows)
}

func (x *Index) scanResults(rows pgx.Rows) ([]knowledge.Result, error) {
	var results []knowledge.Result
	for rows.Next() {
		var (
			id       string
			question string
			answer   string
			r        knowledge.Result
		)
		if err := rows.Scan(&id, &question, &answer, &r.Category, &r.Score); err != nil {
			return nil, fmt.Errorf("scanning qa embedding: %w", err)
		}
		r.Content = "Q: " + question + "\n\nA: " + answer
		r.Reference = "Q&A #" + id
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading qa embeddings: %w", err)
	}
	return results, nil
}

// Stats returns index totals and per-category / per-language counts.
func (x *Index) Stats(ctx context.Context) (*IndexStats, error) {
	stats := &IndexStats{
		ByCategory: make(map[string]int64),
		ByLanguage: make(map[string]int64),
	}

	if err := x.pool.QueryRow(ctx,
		`SELECT count(*) FROM qa_embeddings`).Scan(&stats.TotalIndexed); err != nil {
		return nil, fmt.Errorf("counting qa embeddings: %w", err)
	}

	rows, err := x.pool.Query(ctx,
		`SELECT category, language, count(*) FROM qa_embeddings GROUP BY category, language`)
	if err != nil {
		return nil, fmt.Errorf("counting qa embeddings by group: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, language string
		var count int64
		if err := rows.Scan(&category, &language, &count); err != nil {
			return nil, fmt.Errorf("scanning qa embedding count: %w", err)
		}
		stats.ByCategory[category] += count
		stats.ByLanguage[language] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading qa embedding counts: %w", err)
	}

	return stats, nil
}
