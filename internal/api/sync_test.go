package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popup-studio-ai/bkit-guide/internal/docs"
	"github.com/popup-studio-ai/bkit-guide/internal/docsync"
)

func TestSyncTrigger(t *testing.T) {
	syncer := &stubSyncer{report: &docsync.Report{
		Success:        true,
		FilesProcessed: 23,
		ChunksIndexed:  117,
		Errors:         []string{"Failed to fetch: CHANGELOG.md"},
	}}
	handler := newTestHandler(t, ServerConfig{Syncer: syncer})

	req := httptest.NewRequest(http.MethodPost, "/api/guide/sync", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(23), resp["filesProcessed"])
	assert.Equal(t, float64(117), resp["chunksIndexed"])
	assert.NotEmpty(t, resp["syncedAt"])
	assert.Contains(t, rec.Body.String(), "Failed to fetch: CHANGELOG.md")
}

func TestSyncStatus(t *testing.T) {
	t.Run("not yet synced", func(t *testing.T) {
		handler := newTestHandler(t, ServerConfig{
			DocsStats: &stubDocsStats{stats: &docs.Stats{}},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/guide/sync", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"synced":false`)
	})

	t.Run("synced", func(t *testing.T) {
		handler := newTestHandler(t, ServerConfig{
			DocsStats: &stubDocsStats{stats: &docs.Stats{
				TotalChunks: 42,
				ByCategory:  map[string]int64{"skills": 30, "agents": 12},
			}},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/guide/sync", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"synced":true`)
		assert.Contains(t, body, `"totalChunks":42`)
		assert.Contains(t, body, `"skills":30`)
	})

	t.Run("stats failure", func(t *testing.T) {
		handler := newTestHandler(t, ServerConfig{
			DocsStats: &stubDocsStats{err: errors.New("db down")},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/guide/sync", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "status_failed")
	})
}
