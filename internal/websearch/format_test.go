package websearch

import (
	"strings"
	"testing"
)

func TestFormatResultsEmpty(t *testing.T) {
	if got := FormatResults(nil); got != "" {
		t.Errorf("got %q for empty results, want empty string", got)
	}
}

func TestFormatResultsTopThree(t *testing.T) {
	results := []Result{
		{Title: "one", URL: "https://a", Content: "first"},
		{Title: "two", URL: "https://b", Content: "second"},
		{Title: "three", URL: "https://c", Content: "third"},
		{Title: "four", URL: "https://d", Content: "fourth"},
	}

	got := FormatResults(results)

	if !strings.HasPrefix(got, "## 🌐 외부 웹 검색 결과\n\n") {
		t.Error("missing web results heading")
	}
	for i, title := range []string{"one", "two", "three"} {
		want := "### 웹 검색 결과 " + string(rune('1'+i)) + ": " + title
		if !strings.Contains(got, want) {
			t.Errorf("missing entry %q", want)
		}
	}
	if strings.Contains(got, "four") {
		t.Error("fourth result must be dropped")
	}
	if !strings.Contains(got, "출처: https://a") {
		t.Error("missing source line")
	}
}

func TestFormatResultsTruncatesContent(t *testing.T) {
	long := strings.Repeat("x", formatMaxChars*2)
	got := FormatResults([]Result{{Title: "t", URL: "https://a", Content: long}})

	if strings.Contains(got, strings.Repeat("x", formatMaxChars+1)) {
		t.Error("content not truncated to the per-result cap")
	}
	if !strings.Contains(got, strings.Repeat("x", formatMaxChars)+"...") {
		t.Error("truncated content missing ellipsis")
	}
}

func TestFormatResultsMultibyteTruncation(t *testing.T) {
	long := strings.Repeat("한", formatMaxChars)
	got := FormatResults([]Result{{Title: "t", URL: "https://a", Content: long}})
	for _, r := range got {
		if r == '�' {
			t.Fatal("truncation produced invalid UTF-8")
		}
	}
}
