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
	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
	"github.com/popup-studio-ai/bkit-guide/internal/qa"
)

func TestStatsAggregation(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{
		Archive: &stubArchive{stats: &qa.Stats{
			TotalQuestions: 12,
			ByCategory:     map[string]int64{"pdca": 7},
			ByLanguage:     map[string]int64{"ko": 10, "en": 2},
			RecentCount:    4,
		}},
		DocsStats: &stubDocsStats{stats: &docs.Stats{TotalChunks: 99}},
		Index:     &stubIndexStats{stats: &qa.IndexStats{TotalIndexed: 12}},
		Knowledge: &stubKnowledge{ready: knowledge.Readiness{Docs: true, QA: false}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/guide/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	qaSection, ok := resp["qa"].(map[string]any)
	require.True(t, ok, "qa section must be an object")
	assert.Equal(t, float64(12), qaSection["totalQuestions"])
	assert.Equal(t, float64(4), qaSection["recentCount"])

	github, ok := resp["github"].(map[string]any)
	require.True(t, ok, "github section must be an object")
	assert.Equal(t, float64(99), github["totalChunks"])

	status, ok := resp["status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, status["githubReady"])
	assert.Equal(t, false, status["qaReady"])
}

func TestStatsBrokenSourceIsNull(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{
		Archive:   &stubArchive{statsErr: errors.New("db down")},
		DocsStats: &stubDocsStats{stats: &docs.Stats{TotalChunks: 99}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/guide/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Nil(t, resp["qa"])
	assert.NotNil(t, resp["github"])
}
