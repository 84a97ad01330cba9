// Package api exposes the guide service over HTTP: the streaming chat
// endpoint, direct knowledge base search, documentation sync, feedback,
// statistics, and suggested questions.
package api

import (
	"errors"
	"log/slog"
	"net/http"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger    *slog.Logger
	Answerer  Answerer          // required
	Knowledge KnowledgeSearcher // required
	Syncer    DocsSyncer        // required
	DocsStats DocsStatsProvider // required
	Archive   ArchiveStore      // required
	Index     ArchiveIndexStats // required

	CORSOrigins []string // allowed origins for CORS
	TrustProxy  bool     // trust X-Real-IP/X-Forwarded-For behind a reverse proxy
	RateBurst   int      // rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Answerer == nil {
		return nil, errors.New("answerer is required")
	}
	if cfg.Knowledge == nil {
		return nil, errors.New("knowledge base is required")
	}
	if cfg.Syncer == nil {
		return nil, errors.New("docs syncer is required")
	}
	if cfg.DocsStats == nil {
		return nil, errors.New("docs stats provider is required")
	}
	if cfg.Archive == nil {
		return nil, errors.New("archive store is required")
	}
	if cfg.Index == nil {
		return nil, errors.New("archive index is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ch := &chatHandler{answerer: cfg.Answerer, logger: logger}
	sh := &searchHandler{kb: cfg.Knowledge, logger: logger}
	sy := &syncHandler{syncer: cfg.Syncer, stats: cfg.DocsStats, logger: logger}
	fb := &feedbackHandler{archive: cfg.Archive, logger: logger}
	st := &statsHandler{
		archive: cfg.Archive,
		index:   cfg.Index,
		docs:    cfg.DocsStats,
		kb:      cfg.Knowledge,
		logger:  logger,
	}
	qh := &questionsHandler{archive: cfg.Archive, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/guide/chat", ch.stream)
	mux.HandleFunc("POST /api/guide/search", sh.search)
	mux.HandleFunc("POST /api/guide/sync", sy.trigger)
	mux.HandleFunc("GET /api/guide/sync", sy.status)
	mux.HandleFunc("POST /api/guide/feedback", fb.submit)
	mux.HandleFunc("GET /api/guide/stats", st.get)
	mux.HandleFunc("GET /api/guide/questions", qh.list)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes. CORS must be before RateLimit so preflight OPTIONS gets
	// proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes sit outside the middleware stack so they are never rate
	// limited or logged per request.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Knowledge))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
