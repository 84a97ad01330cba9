package knowledge

// Origin identifies which knowledge source produced a result.
type Origin string

const (
	// OriginDocs marks results from the synced official documentation.
	OriginDocs Origin = "docs"

	// OriginQA marks results from the crowdsourced Q&A archive.
	OriginQA Origin = "qa"
)

// Result is one retrieved snippet from a knowledge source.
//
// Score is a cosine distance: lower is better. Keyword-fallback results carry
// synthetic ordinal scores (0, 0.1, 0.2, ...) so they sort in retrieval order
// when mixed with vector results.
type Result struct {
	Content   string  `json:"content"`
	Reference string  `json:"reference"` // human-readable provenance, e.g. a file path or "Q&A #<id>"
	Category  string  `json:"category,omitempty"`
	Score     float64 `json:"score"`
}

// ScoredResult is a Result after source weighting in the aggregator.
type ScoredResult struct {
	Result
	Source        Origin  `json:"source"`
	AdjustedScore float64 `json:"adjustedScore"`
}
