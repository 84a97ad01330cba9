package websearch

import (
	"fmt"
	"strings"
)

const (
	// formatMaxResults caps how many hits enter the context block.
	formatMaxResults = 3

	// formatMaxChars truncates each hit's content.
	formatMaxChars = 500
)

// FormatResults renders web hits as a context section. At most
// formatMaxResults hits are included, each truncated to formatMaxChars.
// Empty input produces an empty string so no heading appears.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	n := len(results)
	if n > formatMaxResults {
		n = formatMaxResults
	}

	entries := make([]string, 0, n)
	for i, r := range results[:n] {
		content := r.Content
		if len(content) > formatMaxChars {
			cut := formatMaxChars
			for cut > 0 && content[cut]&0xC0 == 0x80 {
				cut--
			}
			content = content[:cut]
		}
		entries = append(entries, fmt.Sprintf(
			"### 웹 검색 결과 %d: %s\n출처: %s\n\n%s...", i+1, r.Title, r.URL, content))
	}

	return "## 🌐 외부 웹 검색 결과\n\n" + strings.Join(entries, "\n\n---\n\n")
}
