package knowledge

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
)

// Source priority weights. Scores are distances (lower is better); the weight
// scales each source's scores before the merged sort.
const (
	docsWeight = 1.0
	qaWeight   = 0.7
)

// Independent context budgets per source, roughly 4K and 3K tokens.
const (
	maxDocsContextChars = 16000
	maxQAContextChars   = 12000
)

// Default per-source limits for a plain search.
const (
	defaultDocsLimit = 5
	defaultQALimit   = 3
)

// readinessProbe is the query used to check that each source has content.
const readinessProbe = "bkit"

// SearchOutput is the merged result of a knowledge base search.
type SearchOutput struct {
	// Results holds all hits from both sources, sorted by adjusted score
	// ascending. Not truncated by the context budgets.
	Results []ScoredResult

	// Context is the prompt-ready context block, sectioned per source and
	// capped by the per-source character budgets.
	Context string

	// DocsCount and QACount are the raw per-source hit counts before budgets.
	DocsCount int
	QACount   int
}

// Base aggregates the documentation and Q&A searchers into one knowledge base.
//
// Base is safe for concurrent use by multiple goroutines.
type Base struct {
	docs   *Searcher
	qa     *Searcher
	logger *slog.Logger
}

// NewBase creates a knowledge base over the two searchers.
func NewBase(docs, qa *Searcher, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{docs: docs, qa: qa, logger: logger}
}

// Search queries both sources concurrently and merges the results.
// Limits of 0 or less use the defaults. Each source degrades independently,
// so a total outage of one source still yields the other's results.
func (b *Base) Search(ctx context.Context, query string, docsLimit, qaLimit int) *SearchOutput {
	if docsLimit <= 0 {
		docsLimit = defaultDocsLimit
	}
	if qaLimit <= 0 {
		qaLimit = defaultQALimit
	}

	var (
		wg          sync.WaitGroup
		docsResults []Result
		qaResults   []Result
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		docsResults = b.docs.Search(ctx, query, docsLimit)
	}()
	go func() {
		defer wg.Done()
		qaResults = b.qa.Search(ctx, query, qaLimit)
	}()
	wg.Wait()

	merged := make([]ScoredResult, 0, len(docsResults)+len(qaResults))
	for _, r := range docsResults {
		merged = append(merged, ScoredResult{
			Result:        r,
			Source:        OriginDocs,
			AdjustedScore: r.Score * docsWeight,
		})
	}
	for _, r := range qaResults {
		merged = append(merged, ScoredResult{
			Result:        r,
			Source:        OriginQA,
			AdjustedScore: r.Score * qaWeight,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].AdjustedScore < merged[j].AdjustedScore
	})

	return &SearchOutput{
		Results:   merged,
		Context:   buildContext(merged),
		DocsCount: len(docsResults),
		QACount:   len(qaResults),
	}
}

// buildContext renders the merged results into a sectioned context block.
// Documentation comes first under its own heading, then Q&A. Each section
// stops adding entries once its character budget would be exceeded.
func buildContext(results []ScoredResult) string {
	var docsEntries []string
	docsChars := 0
	for _, r := range results {
		if r.Source != OriginDocs {
			continue
		}
		if docsChars+len(r.Content) > maxDocsContextChars {
			break
		}
		docsEntries = append(docsEntries, "### "+r.Reference+"\n"+r.Content)
		docsChars += len(r.Content)
	}

	var qaEntries []string
	qaChars := 0
	for _, r := range results {
		if r.Source != OriginQA {
			continue
		}
		if qaChars+len(r.Content) > maxQAContextChars {
			break
		}
		qaEntries = append(qaEntries, r.Content)
		qaChars += len(r.Content)
	}

	var sb strings.Builder
	if len(docsEntries) > 0 {
		sb.WriteString("## 공식 문서 (GitHub)\n\n")
		sb.WriteString(strings.Join(docsEntries, "\n\n---\n\n"))
	}
	if len(qaEntries) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("## 관련 Q&A\n\n")
		sb.WriteString(strings.Join(qaEntries, "\n\n---\n\n"))
	}
	return sb.String()
}

// ChatContext is the retrieval output consumed by the answer pipeline.
type ChatContext struct {
	Context     string
	SourcesUsed []string // references of the top results, best first

	// ResultCount and TopScore describe retrieval strength for the web
	// search gate. TopScore is the best adjusted distance, or 1 when
	// nothing was retrieved.
	ResultCount int
	TopScore    float64
}

// BuildChatContext retrieves context for answering a question.
// maxResults is split 60/40 between documentation and Q&A, rounded in the
// documentation's favor.
func (b *Base) BuildChatContext(ctx context.Context, question string, maxResults int) *ChatContext {
	if maxResults <= 0 {
		maxResults = 8
	}

	docsLimit := int(math.Ceil(float64(maxResults) * 0.6))
	qaLimit := int(math.Floor(float64(maxResults) * 0.4))

	out := b.Search(ctx, question, docsLimit, qaLimit)

	n := maxResults
	if n > len(out.Results) {
		n = len(out.Results)
	}
	sources := make([]string, 0, n)
	for _, r := range out.Results[:n] {
		sources = append(sources, r.Reference)
	}

	topScore := 1.0
	if len(out.Results) > 0 {
		topScore = out.Results[0].AdjustedScore
	}

	return &ChatContext{
		Context:     out.Context,
		SourcesUsed: sources,
		ResultCount: len(out.Results),
		TopScore:    topScore,
	}
}

// Readiness reports whether each knowledge source has retrievable content.
type Readiness struct {
	Docs bool `json:"docs"`
	QA   bool `json:"qa"`
}

// Ready probes both sources with a minimal query.
func (b *Base) Ready(ctx context.Context) Readiness {
	out := b.Search(ctx, readinessProbe, 1, 1)
	return Readiness{Docs: out.DocsCount > 0, QA: out.QACount > 0}
}
