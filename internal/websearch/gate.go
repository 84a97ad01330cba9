package websearch

import "strings"

// triggerTerms force a web search regardless of local retrieval quality.
// Topics like versions, errors, and comparisons age faster than the synced
// documentation.
var triggerTerms = []string{
	"latest",
	"newest",
	"update",
	"version",
	"최신",
	"업데이트",
	"버전",
	"error",
	"bug",
	"에러",
	"버그",
	"오류",
	"alternative",
	"compare",
	"vs",
	"비교",
	"대안",
	"install",
	"설치",
	"how to",
	"방법",
}

// Weak-retrieval thresholds. Scores are distances, so a top score above
// weakTopScore means even the best local hit is a poor match.
const (
	weakResultCount = 2
	weakTopScore    = 0.5
)

// ShouldSearch decides whether a query warrants a web search: either the
// query mentions a trigger topic, or local retrieval was too weak
// (fewer than weakResultCount hits or a top score above weakTopScore).
func ShouldSearch(query string, ragResultCount int, ragTopScore float64) bool {
	lower := strings.ToLower(query)
	for _, term := range triggerTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return ragResultCount < weakResultCount || ragTopScore > weakTopScore
}
