package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/popup-studio-ai/bkit-guide/internal/docs"
	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
	"github.com/popup-studio-ai/bkit-guide/internal/qa"
)

// ArchiveIndexStats reports on the Q&A vector index. *qa.Index satisfies it.
type ArchiveIndexStats interface {
	Stats(ctx context.Context) (*qa.IndexStats, error)
}

type statsResponse struct {
	Success bool `json:"success"`

	// Each section is null when its source could not be read.
	QA         *qa.Stats      `json:"qa"`
	GitHub     *docs.Stats    `json:"github"`
	Embeddings *qa.IndexStats `json:"embeddings"`

	Status statsStatus `json:"status"`
}

type statsStatus struct {
	GitHubReady bool `json:"githubReady"`
	QAReady     bool `json:"qaReady"`
}

// statsHandler aggregates service-wide statistics.
type statsHandler struct {
	archive ArchiveStore
	index   ArchiveIndexStats
	docs    DocsStatsProvider
	kb      KnowledgeSearcher
	logger  *slog.Logger
}

// get handles GET /api/guide/stats. Sources are queried concurrently and each
// degrades to a null section on failure, so one broken source never hides the
// others.
func (h *statsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		wg        sync.WaitGroup
		qaStats   *qa.Stats
		docsStats *docs.Stats
		idxStats  *qa.IndexStats
		readiness knowledge.Readiness
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		s, err := h.archive.Stats(ctx)
		if err != nil {
			h.logger.Warn("failed to read qa stats", "error", err)
			return
		}
		qaStats = s
	}()
	go func() {
		defer wg.Done()
		s, err := h.docs.Stats(ctx)
		if err != nil {
			h.logger.Warn("failed to read docs stats", "error", err)
			return
		}
		docsStats = s
	}()
	go func() {
		defer wg.Done()
		s, err := h.index.Stats(ctx)
		if err != nil {
			h.logger.Warn("failed to read qa index stats", "error", err)
			return
		}
		idxStats = s
	}()
	go func() {
		defer wg.Done()
		readiness = h.kb.Ready(ctx)
	}()
	wg.Wait()

	writeJSON(w, http.StatusOK, statsResponse{
		Success:    true,
		QA:         qaStats,
		GitHub:     docsStats,
		Embeddings: idxStats,
		Status: statsStatus{
			GitHubReady: readiness.Docs,
			QAReady:     readiness.QA,
		},
	})
}
