// Package answer orchestrates the full question pipeline: retrieval, the
// optional web search, streamed generation, and archive persistence.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
	"github.com/popup-studio-ai/bkit-guide/internal/prompt"
	"github.com/popup-studio-ai/bkit-guide/internal/qa"
	"github.com/popup-studio-ai/bkit-guide/internal/websearch"
)

var (
	// ErrEmptyMessage indicates the request carried no question.
	ErrEmptyMessage = errors.New("message is required")

	// ErrGeneration indicates the model call failed.
	ErrGeneration = errors.New("answer generation failed")
)

// maxContextResults is the retrieval budget per question.
const maxContextResults = 8

// persistTimeout bounds the post-stream archive write.
const persistTimeout = 30 * time.Second

// ContextBuilder retrieves prompt context. *knowledge.Base satisfies it.
type ContextBuilder interface {
	BuildChatContext(ctx context.Context, question string, maxResults int) *knowledge.ChatContext
}

// WebSearcher provides the external search fallback. *websearch.Client
// satisfies it.
type WebSearcher interface {
	Enabled() bool
	Search(ctx context.Context, query string) *websearch.Response
}

// Archive persists answered questions. *qa.Store satisfies it.
type Archive interface {
	Create(ctx context.Context, params qa.CreateParams) (*qa.Record, error)
}

// ArchiveIndex makes archived questions searchable. *qa.Index satisfies it.
type ArchiveIndex interface {
	Upsert(ctx context.Context, rec *qa.Record) error
}

// StreamFunc receives answer text chunks as the model produces them.
type StreamFunc func(ctx context.Context, text string) error

// Request is one question to answer.
type Request struct {
	Message   string
	SessionID string
	Locale    string
	UserAgent string
}

// Outcome is the completed answer with its classification metadata.
type Outcome struct {
	Answer      string
	Category    string
	Language    string
	SourcesUsed []string
}

// Orchestrator runs the answer pipeline.
//
// Orchestrator is safe for concurrent use by multiple goroutines.
type Orchestrator struct {
	kb      ContextBuilder
	web     WebSearcher
	archive Archive
	index   ArchiveIndex
	logger  *slog.Logger

	modelName   string
	maxTokens   int32
	temperature float32

	// generate wraps genkit.Generate; tests replace it.
	generate generateFunc

	// afterPersist fires when the background persistence finishes, success
	// or not. Tests use it to synchronize; nil in production.
	afterPersist func()
}

// Config holds the model parameters for the orchestrator.
type Config struct {
	ModelName   string
	MaxTokens   int32
	Temperature float32
}

// New creates an answer orchestrator.
// web may be nil when web search is not configured at all.
func New(g *genkit.Genkit, kb ContextBuilder, web WebSearcher, archive Archive,
	index ArchiveIndex, cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if kb == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}
	if archive == nil {
		return nil, fmt.Errorf("archive is required")
	}
	if index == nil {
		return nil, fmt.Errorf("archive index is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		kb:          kb,
		web:         web,
		archive:     archive,
		index:       index,
		logger:      logger,
		modelName:   cfg.ModelName,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
	o.generate = o.genkitGenerate(g)
	return o, nil
}

// generateFunc produces the answer text for a prepared prompt, forwarding
// chunks to cb when it is non-nil.
type generateFunc func(ctx context.Context, system, promptText string, cb StreamFunc) (string, error)

func (o *Orchestrator) genkitGenerate(g *genkit.Genkit) generateFunc {
	return func(ctx context.Context, system, promptText string, cb StreamFunc) (string, error) {
		opts := []ai.GenerateOption{
			ai.WithSystem(system),
			ai.WithPrompt(promptText),
			ai.WithConfig(&genai.GenerateContentConfig{
				MaxOutputTokens: o.maxTokens,
				Temperature:     genai.Ptr(o.temperature),
			}),
		}
		if o.modelName != "" {
			opts = append(opts, ai.WithModelName(o.modelName))
		}
		if cb != nil {
			opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
				if chunk == nil {
					return nil
				}
				for _, part := range chunk.Content {
					if part.Text == "" {
						continue
					}
					if err := cb(ctx, part.Text); err != nil {
						return err
					}
				}
				return nil
			}))
		}

		resp, err := genkit.Generate(ctx, g, opts...)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
}

// Answer runs the pipeline for one question. When stream is non-nil it
// receives text chunks as they arrive; the full answer is returned either way.
//
// Persistence of the finished answer happens in a detached goroutine after
// the return, so a failed archive write never fails the answer.
func (o *Orchestrator) Answer(ctx context.Context, req Request, stream StreamFunc) (*Outcome, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}

	language := prompt.DetectLanguage(req.Message)
	category := prompt.DetectCategory(req.Message)

	cc := o.kb.BuildChatContext(ctx, req.Message, maxContextResults)
	ragContext := o.withWebResults(ctx, req.Message, cc)
	enhanced := prompt.WrapContext(ragContext, req.Message)

	answerText, err := o.generate(ctx, prompt.System(language), enhanced, stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("anon-%d", time.Now().UnixMilli())
	}

	// Detach from the request lifecycle: the client may disconnect right
	// after the last chunk, and that must not cancel the archive write.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	go func() {
		defer cancel()
		o.persist(persistCtx, qa.CreateParams{
			Question:  req.Message,
			Answer:    answerText,
			Category:  category,
			Language:  language,
			SessionID: sessionID,
			Metadata: qa.Metadata{
				UserAgent:      req.UserAgent,
				RagSourcesUsed: cc.SourcesUsed,
			},
		})
	}()

	return &Outcome{
		Answer:      answerText,
		Category:    category,
		Language:    language,
		SourcesUsed: cc.SourcesUsed,
	}, nil
}

// withWebResults appends web search results to the retrieved context when
// the gate fires. Web search failures contribute nothing.
func (o *Orchestrator) withWebResults(ctx context.Context, message string, cc *knowledge.ChatContext) string {
	ragContext := cc.Context
	if o.web == nil || !o.web.Enabled() {
		return ragContext
	}
	if !websearch.ShouldSearch(message, cc.ResultCount, cc.TopScore) {
		return ragContext
	}

	formatted := websearch.FormatResults(o.web.Search(ctx, message).Results)
	if formatted == "" {
		return ragContext
	}
	if ragContext != "" {
		ragContext += "\n\n"
	}
	return ragContext + formatted
}

// persist archives the answered question and indexes it. Failures are logged
// and swallowed; the user already has their answer.
func (o *Orchestrator) persist(ctx context.Context, params qa.CreateParams) {
	if o.afterPersist != nil {
		defer o.afterPersist()
	}

	rec, err := o.archive.Create(ctx, params)
	if err != nil {
		o.logger.Warn("failed to archive answered question", "error", err)
		return
	}

	if err := o.index.Upsert(ctx, rec); err != nil {
		o.logger.Warn("failed to index archived question", "id", rec.ID, "error", err)
	}
}
