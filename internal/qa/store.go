// Package qa persists the crowdsourced question/answer archive and its
// vector index.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("qa record not found")

// Metadata carries optional per-record context from the answer pipeline.
type Metadata struct {
	UserAgent      string   `json:"userAgent,omitempty"`
	RagSourcesUsed []string `json:"ragSourcesUsed,omitempty"`
	TokensUsed     int      `json:"tokensUsed,omitempty"`
}

// Record is one archived question/answer pair.
// Records are append-only; Helpful is the only mutable field.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	Language  string    `json:"language"`
	SessionID string    `json:"sessionId,omitempty"`
	Helpful   int32     `json:"helpful"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateParams holds the fields for a new record.
type CreateParams struct {
	Question  string
	Answer    string
	Category  string
	Language  string
	SessionID string
	Metadata  Metadata
}

// Stats summarizes the archive.
type Stats struct {
	TotalQuestions int64            `json:"totalQuestions"`
	ByCategory     map[string]int64 `json:"byCategory"`
	ByLanguage     map[string]int64 `json:"byLanguage"`
	RecentCount    int64            `json:"recentCount"` // last 7 days
}

// RecentFilter narrows a Recent listing. Zero values mean no filter.
type RecentFilter struct {
	Category string
	Language string
	Limit    int
}

// Store manages qa_records in PostgreSQL.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates an archive store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Create inserts a new record with helpful = 0 and a generated id.
func (s *Store) Create(ctx context.Context, params CreateParams) (*Record, error) {
	if params.Question == "" {
		return nil, fmt.Errorf("question is required")
	}
	if params.Answer == "" {
		return nil, fmt.Errorf("answer is required")
	}

	rec := &Record{
		ID:        uuid.New(),
		Question:  params.Question,
		Answer:    params.Answer,
		Category:  params.Category,
		Language:  params.Language,
		SessionID: params.SessionID,
		Metadata:  params.Metadata,
	}
	if rec.Category == "" {
		rec.Category = "general"
	}
	if rec.Language == "" {
		rec.Language = "en"
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO qa_records (id, question, answer, category, language, session_id, helpful, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, now())
		RETURNING created_at`,
		rec.ID, rec.Question, rec.Answer, rec.Category, rec.Language,
		nullIfEmpty(rec.SessionID), rec.Metadata).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting qa record: %w", err)
	}

	s.logger.Debug("qa record created", "id", rec.ID, "category", rec.Category)
	return rec, nil
}

// GetByID fetches a record. Returns ErrNotFound if it does not exist.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, question, answer, category, language, COALESCE(session_id, ''),
		       helpful, metadata, created_at
		FROM qa_records
		WHERE id = $1`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("fetching qa record: %w", err)
	}
	return rec, nil
}

// IncrementHelpful applies delta to the record's helpful counter in a single
// UPDATE statement, so concurrent feedback never loses increments.
// Returns ErrNotFound when no row matched.
func (s *Store) IncrementHelpful(ctx context.Context, id uuid.UUID, delta int32) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE qa_records SET helpful = helpful + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("updating helpful count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Recent lists records newest-first, optionally filtered by category and
// language. Limit defaults to 20.
func (s *Store) Recent(ctx context.Context, filter RecentFilter) ([]Record, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, question, answer, category, language, COALESCE(session_id, ''),
		       helpful, metadata, created_at
		FROM qa_records
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR language = $2)
		ORDER BY created_at DESC
		LIMIT $3`,
		filter.Category, filter.Language, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent qa records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// TopHelpful lists records with positive feedback, most helpful first.
func (s *Store) TopHelpful(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, question, answer, category, language, COALESCE(session_id, ''),
		       helpful, metadata, created_at
		FROM qa_records
		WHERE helpful > 0
		ORDER BY helpful DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing top helpful qa records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Stats returns archive totals, per-category and per-language counts, and
// the number of records created in the last 7 days.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByCategory: make(map[string]int64),
		ByLanguage: make(map[string]int64),
	}

	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM qa_records`).Scan(&stats.TotalQuestions); err != nil {
		return nil, fmt.Errorf("counting qa records: %w", err)
	}

	if err := s.groupCount(ctx, "category", stats.ByCategory); err != nil {
		return nil, err
	}
	if err := s.groupCount(ctx, "language", stats.ByLanguage); err != nil {
		return nil, err
	}

	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM qa_records WHERE created_at >= now() - interval '7 days'`,
	).Scan(&stats.RecentCount); err != nil {
		return nil, fmt.Errorf("counting recent qa records: %w", err)
	}

	return stats, nil
}

// groupCount fills dest with per-value counts for the given column.
// column is always a compile-time constant, never user input.
func (s *Store) groupCount(ctx context.Context, column string, dest map[string]int64) error {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s, count(*) FROM qa_records GROUP BY %s`, column, column))
	if err != nil {
		return fmt.Errorf("counting qa records by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return fmt.Errorf("scanning %s count: %w", column, err)
		}
		dest[value] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading %s counts: %w", column, err)
	}
	return nil
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning qa record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading qa records: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Question, &rec.Answer, &rec.Category,
		&rec.Language, &rec.SessionID, &rec.Helpful, &rec.Metadata, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
