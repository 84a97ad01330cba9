package docsync

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/popup-studio-ai/bkit-guide/internal/docs"
	"github.com/popup-studio-ai/bkit-guide/internal/testutil"
)

// mockFetcher serves canned file contents.
type mockFetcher struct {
	files map[string]string // path -> content; missing paths fail
}

func (m *mockFetcher) FetchFile(_ context.Context, path string) (string, error) {
	content, ok := m.files[path]
	if !ok {
		return "", errors.New("404 not found")
	}
	return content, nil
}

// mockChunkEmbedder implements Embedder, optionally failing on marked text.
type mockChunkEmbedder struct {
	failOn string
	calls  int
}

func (m *mockChunkEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	m.calls++
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return pgvector.Vector{}, errors.New("embedding unavailable")
	}
	return pgvector.NewVector([]float32{1, 0}), nil
}

// mockWriter records the replacement.
type mockWriter struct {
	chunks []docs.Chunk
	err    error
	calls  int
}

func (m *mockWriter) ReplaceAll(_ context.Context, chunks []docs.Chunk) error {
	m.calls++
	m.chunks = chunks
	return m.err
}

func docContent(marker string) string {
	return strings.Repeat("This file documents the "+marker+" behaviour in detail. ", 10)
}

func TestSyncAllFilesSucceed(t *testing.T) {
	files := make(map[string]string, len(FilesToIndex))
	for _, path := range FilesToIndex {
		files[path] = docContent(path)
	}
	writer := &mockWriter{}
	s := NewSyncer(&mockFetcher{files: files}, &mockChunkEmbedder{}, writer, testutil.DiscardLogger())

	report := s.Sync(context.Background())

	if !report.Success {
		t.Fatalf("Success = false, errors: %v", report.Errors)
	}
	if report.FilesProcessed != len(FilesToIndex) {
		t.Errorf("FilesProcessed = %d, want %d", report.FilesProcessed, len(FilesToIndex))
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %v, want none", report.Errors)
	}
	if report.ChunksIndexed != len(writer.chunks) {
		t.Errorf("ChunksIndexed = %d but wrote %d chunks", report.ChunksIndexed, len(writer.chunks))
	}
	if writer.calls != 1 {
		t.Errorf("ReplaceAll called %d times, want 1", writer.calls)
	}
}

func TestSyncAccumulatesFetchErrors(t *testing.T) {
	// Only README fetches; every other file records an error, and the
	// replace still happens with what succeeded.
	files := map[string]string{"README.md": docContent("readme")}
	writer := &mockWriter{}
	s := NewSyncer(&mockFetcher{files: files}, &mockChunkEmbedder{}, writer, testutil.DiscardLogger())

	report := s.Sync(context.Background())

	if !report.Success {
		t.Fatal("partial fetch failure must not fail the sync")
	}
	if report.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", report.FilesProcessed)
	}
	wantErrors := len(FilesToIndex) - 1
	if len(report.Errors) != wantErrors {
		t.Errorf("got %d errors, want %d", len(report.Errors), wantErrors)
	}
	for _, e := range report.Errors {
		if !strings.HasPrefix(e, "Failed to fetch: ") {
			t.Errorf("unexpected error format: %q", e)
		}
	}
	if writer.calls != 1 {
		t.Error("index must still be replaced with the successful subset")
	}
}

func TestSyncEmbeddingErrorSkipsChunkOnly(t *testing.T) {
	files := map[string]string{"README.md": docContent("readme")}
	emb := &mockChunkEmbedder{failOn: "readme"}
	writer := &mockWriter{}
	s := NewSyncer(&mockFetcher{files: files}, emb, writer, testutil.DiscardLogger())

	report := s.Sync(context.Background())

	if !report.Success {
		t.Fatal("embedding failures must not fail the sync")
	}
	if report.ChunksIndexed != 0 {
		t.Errorf("ChunksIndexed = %d, want 0", report.ChunksIndexed)
	}
	if len(report.Errors) == 0 {
		t.Fatal("expected embedding errors to accumulate")
	}
	if !strings.HasPrefix(report.Errors[0], "Embedding error for README.md chunk ") {
		t.Errorf("unexpected error format: %q", report.Errors[0])
	}
	// Destructive contract: the index is still replaced, here with nothing.
	if writer.calls != 1 {
		t.Error("ReplaceAll must run even when no chunks survived")
	}
}

func TestSyncWriterFailure(t *testing.T) {
	files := map[string]string{"README.md": docContent("readme")}
	writer := &mockWriter{err: errors.New("connection refused")}
	s := NewSyncer(&mockFetcher{files: files}, &mockChunkEmbedder{}, writer, testutil.DiscardLogger())

	report := s.Sync(context.Background())

	if report.Success {
		t.Error("Success = true despite storage failure")
	}
	found := false
	for _, e := range report.Errors {
		if strings.HasPrefix(e, "Sync error: ") {
			found = true
		}
	}
	if !found {
		t.Errorf("storage failure missing from errors: %v", report.Errors)
	}
}

func TestSyncChunkMetadata(t *testing.T) {
	files := map[string]string{
		"README.md":               docContent("overview"),
		"skills/starter/SKILL.md": docContent("starter skill"),
	}
	writer := &mockWriter{}
	s := NewSyncer(&mockFetcher{files: files}, &mockChunkEmbedder{}, writer, testutil.DiscardLogger())

	s.Sync(context.Background())

	perSource := make(map[string]int)
	for _, c := range writer.chunks {
		if c.Category != CategoryForPath(c.Source) {
			t.Errorf("chunk %s category = %q, want %q", c.ID, c.Category, CategoryForPath(c.Source))
		}
		wantID := c.Source + "-" + strconv.Itoa(c.ChunkIndex)
		if c.ID != wantID {
			t.Errorf("chunk ID = %q, want %q", c.ID, wantID)
		}
		if c.ChunkIndex != perSource[c.Source] {
			t.Errorf("chunk %s index = %d, want sequential %d", c.ID, c.ChunkIndex, perSource[c.Source])
		}
		perSource[c.Source]++
	}
	if len(perSource) != 2 {
		t.Errorf("chunks written for %d sources, want 2", len(perSource))
	}
}
