package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/popup-studio-ai/bkit-guide/db"
	"github.com/popup-studio-ai/bkit-guide/internal/answer"
	"github.com/popup-studio-ai/bkit-guide/internal/config"
	"github.com/popup-studio-ai/bkit-guide/internal/docs"
	"github.com/popup-studio-ai/bkit-guide/internal/docsync"
	"github.com/popup-studio-ai/bkit-guide/internal/embed"
	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
	"github.com/popup-studio-ai/bkit-guide/internal/qa"
	"github.com/popup-studio-ai/bkit-guide/internal/websearch"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup. Call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already initialized.
	defer func() {
		if retErr != nil {
			a.Close()
		}
	}()

	pool, err := providePool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	a.Genkit = g

	gate, err := embed.NewGate(googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel), logger)
	if err != nil {
		return nil, fmt.Errorf("creating embedding gate: %w", err)
	}

	a.DocsStore, err = docs.NewStore(pool, logger)
	if err != nil {
		return nil, fmt.Errorf("creating docs store: %w", err)
	}
	a.Archive, err = qa.NewStore(pool, logger)
	if err != nil {
		return nil, fmt.Errorf("creating qa store: %w", err)
	}
	a.ArchiveIndex, err = qa.NewIndex(pool, gate, logger)
	if err != nil {
		return nil, fmt.Errorf("creating qa index: %w", err)
	}

	docsSearcher := knowledge.NewSearcher("docs", a.DocsStore, gate, logger)
	qaSearcher := knowledge.NewSearcher("qa", a.ArchiveIndex, gate, logger)
	a.KB = knowledge.NewBase(docsSearcher, qaSearcher, logger)

	owner, repo := cfg.DocsRepoParts()
	fetcher := docsync.NewGitHubFetcher(owner, repo, cfg.DocsBranch, cfg.GitHubToken, logger)
	a.Syncer = docsync.NewSyncer(fetcher, gate, a.DocsStore, logger)

	// Web search degrades to a no-op without a key; always wired.
	a.Web = websearch.NewClient(cfg.TavilyAPIKey, logger)

	a.Answerer, err = answer.New(g, a.KB, a.Web, a.Archive, a.ArchiveIndex, answer.Config{
		ModelName:   cfg.ModelName,
		MaxTokens:   int32(cfg.MaxTokens),
		Temperature: cfg.Temperature,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating answer orchestrator: %w", err)
	}

	return a, nil
}

// providePool runs migrations and creates the PostgreSQL connection pool.
func providePool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
