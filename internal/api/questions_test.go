package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popup-studio-ai/bkit-guide/internal/prompt"
	"github.com/popup-studio-ai/bkit-guide/internal/qa"
)

func getQuestions(t *testing.T, handler http.Handler, url string) questionsResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp questionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestQuestionsBlendsPopularWithDefaults(t *testing.T) {
	archive := &stubArchive{top: []qa.Record{
		{Question: "helpful question one", Helpful: 9},
		{Question: "helpful question two", Helpful: 5},
	}}
	handler := newTestHandler(t, ServerConfig{Archive: archive})

	resp := getQuestions(t, handler, "/api/guide/questions?locale=en")

	require.True(t, len(resp.Questions) >= 2)
	assert.Equal(t, "helpful question one", resp.Questions[0])
	assert.Equal(t, "helpful question two", resp.Questions[1])
	assert.LessOrEqual(t, len(resp.Questions), 6)
	assert.Equal(t, "en", resp.Locale)
}

func TestQuestionsArchiveFailureFallsBack(t *testing.T) {
	archive := &stubArchive{topErr: errors.New("db down")}
	handler := newTestHandler(t, ServerConfig{Archive: archive})

	resp := getQuestions(t, handler, "/api/guide/questions?locale=en")

	assert.Equal(t, prompt.DefaultQuestions("en"), resp.Questions)
}

func TestQuestionsByCategory(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	resp := getQuestions(t, handler, "/api/guide/questions?category=pdca")
	assert.Equal(t, prompt.QuestionsByCategory("pdca"), resp.Questions)

	resp = getQuestions(t, handler, "/api/guide/questions?category=unknown")
	assert.Empty(t, resp.Questions)
	assert.NotNil(t, resp.Questions)
}

func TestQuestionsDefaultLocale(t *testing.T) {
	handler := newTestHandler(t, ServerConfig{})

	resp := getQuestions(t, handler, "/api/guide/questions")
	assert.Equal(t, prompt.DefaultLocale, resp.Locale)
	assert.Equal(t, prompt.DefaultQuestions(prompt.DefaultLocale), resp.Questions)
}
