package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/popup-studio-ai/bkit-guide/internal/qa"
)

// ArchiveStore is the Q&A archive surface the API needs. *qa.Store
// satisfies it.
type ArchiveStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*qa.Record, error)
	IncrementHelpful(ctx context.Context, id uuid.UUID, delta int32) error
	Stats(ctx context.Context) (*qa.Stats, error)
	TopHelpful(ctx context.Context, limit int) ([]qa.Record, error)
}

type feedbackRequest struct {
	QAID string `json:"qaId"`

	// Helpful is a pointer so a missing field is distinguishable from false.
	Helpful *bool `json:"helpful"`
}

type feedbackResponse struct {
	Success  bool   `json:"success"`
	QAID     string `json:"qaId"`
	Helpful  bool   `json:"helpful"`
	NewScore int32  `json:"newScore"`
}

// feedbackHandler records thumbs up/down votes on archived answers.
type feedbackHandler struct {
	archive ArchiveStore
	logger  *slog.Logger
}

// submit handles POST /api/guide/feedback. A thumbs up adds 1 to the
// record's helpful counter, a thumbs down subtracts 1.
func (h *feedbackHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return
	}
	if req.QAID == "" {
		writeError(w, http.StatusBadRequest, "missing_qa_id", "qaId is required", h.logger)
		return
	}
	if req.Helpful == nil {
		writeError(w, http.StatusBadRequest, "invalid_helpful", "helpful must be a boolean", h.logger)
		return
	}

	id, err := uuid.Parse(req.QAID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_qa_id", "qaId must be a UUID", h.logger)
		return
	}

	rec, err := h.archive.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, qa.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Q&A not found", h.logger)
			return
		}
		h.logger.Error("failed to load qa record", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "feedback_failed", "failed to record feedback", h.logger)
		return
	}

	var delta int32 = 1
	if !*req.Helpful {
		delta = -1
	}

	if err := h.archive.IncrementHelpful(r.Context(), id, delta); err != nil {
		if errors.Is(err, qa.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Q&A not found", h.logger)
			return
		}
		h.logger.Error("failed to update helpful count", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "feedback_failed", "failed to record feedback", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{
		Success:  true,
		QAID:     req.QAID,
		Helpful:  *req.Helpful,
		NewScore: rec.Helpful + delta,
	})
}
