// Package app wires the service together: database, migrations, genkit,
// knowledge base, documentation sync, web search, and the answer pipeline.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/popup-studio-ai/bkit-guide/internal/answer"
	"github.com/popup-studio-ai/bkit-guide/internal/config"
	"github.com/popup-studio-ai/bkit-guide/internal/docs"
	"github.com/popup-studio-ai/bkit-guide/internal/docsync"
	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
	"github.com/popup-studio-ai/bkit-guide/internal/qa"
	"github.com/popup-studio-ai/bkit-guide/internal/websearch"
)

// App holds the wired application components.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Genkit *genkit.Genkit

	DocsStore    *docs.Store
	Archive      *qa.Store
	ArchiveIndex *qa.Index
	KB           *knowledge.Base
	Syncer       *docsync.Syncer
	Web          *websearch.Client
	Answerer     *answer.Orchestrator
}

// Close releases the application's resources.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
