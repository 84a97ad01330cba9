package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/popup-studio-ai/bkit-guide/internal/answer"
)

// Answerer runs the answer pipeline. *answer.Orchestrator satisfies it.
type Answerer interface {
	Answer(ctx context.Context, req answer.Request, stream answer.StreamFunc) (*answer.Outcome, error)
}

// SSE event types for chat streaming.
const (
	eventChunk = "chunk" // partial answer text
	eventDone  = "done"  // stream completed successfully
	eventError = "error" // error occurred during streaming
)

type chunkPayload struct {
	Text string `json:"text"`
}

type donePayload struct {
	Category    string   `json:"category"`
	SourcesUsed []string `json:"sourcesUsed"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Locale    string `json:"locale"`
}

// chatHandler serves the streaming chat endpoint.
type chatHandler struct {
	answerer Answerer
	logger   *slog.Logger
}

// stream handles POST /api/guide/chat as an SSE stream.
// Validation failures are plain JSON 400s; once streaming starts, failures
// become `error` events because the status line is already sent.
func (h *chatHandler) stream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "missing_message", "message is required", h.logger)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ctx := r.Context()
	out, err := h.answerer.Answer(ctx, answer.Request{
		Message:   req.Message,
		SessionID: req.SessionID,
		Locale:    req.Locale,
		UserAgent: r.UserAgent(),
	}, func(_ context.Context, text string) error {
		return writeEvent(w, flusher, eventChunk, chunkPayload{Text: text})
	})
	if err != nil {
		// A write failure inside the stream callback surfaces here too;
		// writing one more event to a dead connection is harmless.
		h.logger.Error("chat stream failed", "error", err)
		_ = writeEvent(w, flusher, eventError, errorPayload{
			Code:    "generation_failed",
			Message: err.Error(),
		})
		return
	}

	_ = writeEvent(w, flusher, eventDone, donePayload{
		Category:    out.Category,
		SourcesUsed: out.SourcesUsed,
	})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
