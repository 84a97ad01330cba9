package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/popup-studio-ai/bkit-guide/internal/docs"
	"github.com/popup-studio-ai/bkit-guide/internal/docsync"
)

// DocsSyncer rebuilds the documentation index. *docsync.Syncer satisfies it.
type DocsSyncer interface {
	Sync(ctx context.Context) *docsync.Report
}

// DocsStatsProvider reports on the documentation index. *docs.Store
// satisfies it.
type DocsStatsProvider interface {
	Stats(ctx context.Context) (*docs.Stats, error)
}

type syncResponse struct {
	docsync.Report
	SyncedAt time.Time `json:"syncedAt"`
}

type syncStatusResponse struct {
	Synced      bool             `json:"synced"`
	Message     string           `json:"message,omitempty"`
	TotalChunks int64            `json:"totalChunks,omitempty"`
	ByCategory  map[string]int64 `json:"byCategory,omitempty"`
}

// syncHandler serves documentation sync trigger and status.
type syncHandler struct {
	syncer DocsSyncer
	stats  DocsStatsProvider
	logger *slog.Logger
}

// trigger handles POST /api/guide/sync. The sync itself never fails the
// request; partial failures are reported in the body.
func (h *syncHandler) trigger(w http.ResponseWriter, r *http.Request) {
	report := h.syncer.Sync(r.Context())

	writeJSON(w, http.StatusOK, syncResponse{
		Report:   *report,
		SyncedAt: time.Now().UTC(),
	})
}

// status handles GET /api/guide/sync.
func (h *syncHandler) status(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to read docs stats", "error", err)
		writeError(w, http.StatusInternalServerError, "status_failed", "status check failed", h.logger)
		return
	}

	if stats.TotalChunks == 0 {
		writeJSON(w, http.StatusOK, syncStatusResponse{
			Synced:  false,
			Message: "documentation not yet synced, POST to sync",
		})
		return
	}

	writeJSON(w, http.StatusOK, syncStatusResponse{
		Synced:      true,
		TotalChunks: stats.TotalChunks,
		ByCategory:  stats.ByCategory,
	})
}
