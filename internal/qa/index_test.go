package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/popup-studio-ai/bkit-guide/internal/testutil"
)

type failingEmbedder struct {
	err       error
	lastInput string
}

func (e *failingEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	e.lastInput = text
	return pgvector.Vector{}, e.err
}

func TestEmbedText(t *testing.T) {
	got := EmbedText("질문 내용", "답변 내용")
	want := "질문: 질문 내용\n\n답변: 답변 내용"
	if got != want {
		t.Errorf("EmbedText = %q, want %q", got, want)
	}
}

func TestUpsertEmbeddingFailure(t *testing.T) {
	embedErr := errors.New("provider unavailable")
	embedder := &failingEmbedder{err: embedErr}

	// Embedding runs before any database access, so the pool stays nil.
	idx := &Index{embedder: embedder, logger: testutil.DiscardLogger()}

	rec := &Record{
		ID:       uuid.New(),
		Question: "how do I install the plugin?",
		Answer:   "run the installer",
	}

	err := idx.Upsert(context.Background(), rec)
	if !errors.Is(err, embedErr) {
		t.Fatalf("Upsert error = %v, want wrapped %v", err, embedErr)
	}
	if !strings.Contains(err.Error(), rec.ID.String()) {
		t.Errorf("Upsert error %q missing record id", err)
	}
	if want := EmbedText(rec.Question, rec.Answer); embedder.lastInput != want {
		t.Errorf("embedded input = %q, want %q", embedder.lastInput, want)
	}
}
