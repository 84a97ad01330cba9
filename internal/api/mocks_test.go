package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/popup-studio-ai/bkit-guide/internal/answer"
	"github.com/popup-studio-ai/bkit-guide/internal/docs"
	"github.com/popup-studio-ai/bkit-guide/internal/docsync"
	"github.com/popup-studio-ai/bkit-guide/internal/knowledge"
	"github.com/popup-studio-ai/bkit-guide/internal/qa"
	"github.com/popup-studio-ai/bkit-guide/internal/testutil"
)

type stubAnswerer struct {
	out    *answer.Outcome
	err    error
	chunks []string
	gotReq answer.Request
}

func (s *stubAnswerer) Answer(ctx context.Context, req answer.Request, stream answer.StreamFunc) (*answer.Outcome, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	if stream != nil {
		for _, c := range s.chunks {
			if err := stream(ctx, c); err != nil {
				return nil, err
			}
		}
	}
	return s.out, nil
}

type stubKnowledge struct {
	out   *knowledge.SearchOutput
	ready knowledge.Readiness

	gotQuery     string
	gotDocsLimit int
	gotQALimit   int
}

func (s *stubKnowledge) Search(_ context.Context, query string, docsLimit, qaLimit int) *knowledge.SearchOutput {
	s.gotQuery = query
	s.gotDocsLimit = docsLimit
	s.gotQALimit = qaLimit
	if s.out == nil {
		return &knowledge.SearchOutput{}
	}
	return s.out
}

func (s *stubKnowledge) Ready(context.Context) knowledge.Readiness {
	return s.ready
}

type stubSyncer struct {
	report *docsync.Report
}

func (s *stubSyncer) Sync(context.Context) *docsync.Report {
	return s.report
}

type stubDocsStats struct {
	stats *docs.Stats
	err   error
}

func (s *stubDocsStats) Stats(context.Context) (*docs.Stats, error) {
	return s.stats, s.err
}

type stubArchive struct {
	rec    *qa.Record
	getErr error

	incErr   error
	gotID    uuid.UUID
	gotDelta int32

	stats    *qa.Stats
	statsErr error

	top    []qa.Record
	topErr error
}

func (s *stubArchive) GetByID(_ context.Context, id uuid.UUID) (*qa.Record, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.rec, nil
}

func (s *stubArchive) IncrementHelpful(_ context.Context, id uuid.UUID, delta int32) error {
	s.gotID = id
	s.gotDelta = delta
	return s.incErr
}

func (s *stubArchive) Stats(context.Context) (*qa.Stats, error) {
	return s.stats, s.statsErr
}

func (s *stubArchive) TopHelpful(context.Context, int) ([]qa.Record, error) {
	return s.top, s.topErr
}

type stubIndexStats struct {
	stats *qa.IndexStats
	err   error
}

func (s *stubIndexStats) Stats(context.Context) (*qa.IndexStats, error) {
	return s.stats, s.err
}

// newTestHandler builds a fully-routed server over the given config, filling
// any nil dependency with a benign stub.
func newTestHandler(t *testing.T, cfg ServerConfig) http.Handler {
	t.Helper()

	if cfg.Logger == nil {
		cfg.Logger = testutil.DiscardLogger()
	}
	if cfg.Answerer == nil {
		cfg.Answerer = &stubAnswerer{out: &answer.Outcome{}}
	}
	if cfg.Knowledge == nil {
		cfg.Knowledge = &stubKnowledge{}
	}
	if cfg.Syncer == nil {
		cfg.Syncer = &stubSyncer{report: &docsync.Report{Success: true}}
	}
	if cfg.DocsStats == nil {
		cfg.DocsStats = &stubDocsStats{stats: &docs.Stats{}}
	}
	if cfg.Archive == nil {
		cfg.Archive = &stubArchive{}
	}
	if cfg.Index == nil {
		cfg.Index = &stubIndexStats{stats: &qa.IndexStats{}}
	}

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv.Handler()
}
