package api

import (
	"log/slog"
	"net/http"

	"github.com/popup-studio-ai/bkit-guide/internal/prompt"
)

// topHelpfulCount is how many archive questions lead the suggestion list.
const topHelpfulCount = 3

type questionsResponse struct {
	Success   bool     `json:"success"`
	Locale    string   `json:"locale"`
	Questions []string `json:"questions"`
}

// questionsHandler serves suggested starter questions.
type questionsHandler struct {
	archive ArchiveStore
	logger  *slog.Logger
}

// list handles GET /api/guide/questions. With a `category` query parameter it
// returns the static follow-ups for that category; otherwise it blends the
// most helpful archived questions with the locale defaults. An archive
// failure falls back to the defaults alone.
func (h *questionsHandler) list(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = prompt.DefaultLocale
	}

	if category := r.URL.Query().Get("category"); category != "" {
		questions := prompt.QuestionsByCategory(category)
		if questions == nil {
			questions = []string{}
		}
		writeJSON(w, http.StatusOK, questionsResponse{
			Success:   true,
			Locale:    locale,
			Questions: questions,
		})
		return
	}

	var popular []string
	top, err := h.archive.TopHelpful(r.Context(), topHelpfulCount)
	if err != nil {
		h.logger.Warn("failed to load top helpful questions", "error", err)
	} else {
		for _, rec := range top {
			popular = append(popular, rec.Question)
		}
	}

	writeJSON(w, http.StatusOK, questionsResponse{
		Success:   true,
		Locale:    locale,
		Questions: prompt.SuggestedQuestions(locale, popular),
	})
}
