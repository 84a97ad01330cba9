// Package websearch bridges to the Tavily search API for questions the local
// knowledge base cannot answer.
//
// The bridge fails soft everywhere: a missing API key, an HTTP error, or a
// timeout all yield an empty result set, never an error that could break the
// answer pipeline.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	// apiURL is the Tavily search endpoint.
	apiURL = "https://api.tavily.com/search"

	// querySuffix anchors every web query to the plugin ecosystem.
	querySuffix = " Claude Code bkit plugin"

	// requestTimeout caps the whole web search; expiry means an empty
	// contribution, not a failed answer.
	requestTimeout = 5 * time.Second

	// defaultMaxResults is the result count requested from Tavily.
	defaultMaxResults = 5
)

// includeDomains is the allow-list sent with every search.
var includeDomains = []string{
	"github.com",
	"anthropic.com",
	"docs.anthropic.com",
	"claude.ai",
	"stackoverflow.com",
	"dev.to",
	"medium.com",
}

// Result is one web search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response is the outcome of a web search.
type Response struct {
	Results []Result `json:"results"`
	Answer  string   `json:"answer,omitempty"`
}

type searchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	MaxResults     int      `json:"max_results"`
	IncludeAnswer  bool     `json:"include_answer"`
	IncludeDomains []string `json:"include_domains"`
}

// Client searches the web via Tavily.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	apiKey  string
	baseURL string // test override, empty in production
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a web search client. An empty apiKey disables search;
// every call then returns an empty response.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Search queries Tavily with the ecosystem suffix and domain allow-list.
// All failures degrade to an empty Response.
func (c *Client) Search(ctx context.Context, query string) *Response {
	empty := &Response{Results: []Result{}}

	if c.apiKey == "" {
		c.logger.Debug("web search skipped, no API key configured")
		return empty
	}

	body, err := json.Marshal(searchRequest{
		APIKey:         c.apiKey,
		Query:          query + querySuffix,
		SearchDepth:    "basic",
		MaxResults:     defaultMaxResults,
		IncludeAnswer:  true,
		IncludeDomains: includeDomains,
	})
	if err != nil {
		c.logger.Warn("web search request marshal failed", "error", err)
		return empty
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("web search request build failed", "error", err)
		return empty
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("web search failed", "error", err)
		return empty
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("web search returned non-OK status", "status", resp.StatusCode)
		return empty
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("web search response decode failed", "error", err)
		return empty
	}
	if parsed.Results == nil {
		parsed.Results = []Result{}
	}

	c.logger.Debug("web search completed", "results", len(parsed.Results))
	return &parsed
}

// url allows tests to point the client at a local server.
func (c *Client) url() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return apiURL
}
