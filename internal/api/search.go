package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
)

// defaultSearchLimit is the result cap when the request does not set one.
const defaultSearchLimit = 10

// KnowledgeSearcher is the knowledge base surface the API needs.
// *knowledge.Base satisfies it.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, docsLimit, qaLimit int) *knowledge.SearchOutput
	Ready(ctx context.Context) knowledge.Readiness
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchSources struct {
	Docs int `json:"docs"`
	QA   int `json:"qa"`
}

type searchResponse struct {
	Success bool                     `json:"success"`
	Query   string                   `json:"query"`
	Results []knowledge.ScoredResult `json:"results"`
	Sources searchSources            `json:"sources"`
}

// searchHandler serves direct knowledge base searches.
type searchHandler struct {
	kb     KnowledgeSearcher
	logger *slog.Logger
}

// search handles POST /api/guide/search. The limit splits 60/40 between
// documentation and Q&A, rounded in the documentation's favor.
func (h *searchHandler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "missing_query", "query is required", h.logger)
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	docsLimit := int(math.Ceil(float64(req.Limit) * 0.6))
	qaLimit := int(math.Floor(float64(req.Limit) * 0.4))

	out := h.kb.Search(r.Context(), req.Query, docsLimit, qaLimit)

	results := out.Results
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	if results == nil {
		results = []knowledge.ScoredResult{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Query:   req.Query,
		Results: results,
		Sources: searchSources{Docs: out.DocsCount, QA: out.QACount},
	})
}
