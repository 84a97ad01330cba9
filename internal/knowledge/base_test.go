package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/popup-studio-ai/bkit-guide/internal/testutil"
)

func newTestBase(docsIdx, qaIdx *mockIndex) *Base {
	logger := testutil.DiscardLogger()
	docs := NewSearcher("docs", docsIdx, &mockQueryEmbedder{}, logger)
	qa := NewSearcher("qa", qaIdx, &mockQueryEmbedder{}, logger)
	return NewBase(docs, qa, logger)
}

func TestBaseSearchWeightOrdering(t *testing.T) {
	// A doc hit at distance 0.1 and a Q&A hit at distance 0.3 must come out
	// at adjusted scores 0.1 and 0.21 respectively, doc first.
	docsIdx := &mockIndex{vectorResults: []Result{
		{Content: "doc chunk", Reference: "README.md", Score: 0.1},
	}}
	qaIdx := &mockIndex{vectorResults: []Result{
		{Content: "Q: q\n\nA: a", Reference: "Q&A #abc", Score: 0.3},
	}}

	out := newTestBase(docsIdx, qaIdx).Search(context.Background(), "query", 5, 3)

	if len(out.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(out.Results))
	}
	first, second := out.Results[0], out.Results[1]
	if first.Source != OriginDocs || first.AdjustedScore != 0.1 {
		t.Errorf("first = %s@%v, want docs@0.1", first.Source, first.AdjustedScore)
	}
	if second.Source != OriginQA {
		t.Fatalf("second.Source = %s, want qa", second.Source)
	}
	// 0.3 * 0.7 with float32-free arithmetic still needs tolerance.
	if diff := second.AdjustedScore - 0.21; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("second.AdjustedScore = %v, want 0.21", second.AdjustedScore)
	}
	if out.DocsCount != 1 || out.QACount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", out.DocsCount, out.QACount)
	}
}

func TestBaseSearchQACanOutrankDocs(t *testing.T) {
	// Weighting is multiplicative, so a much closer Q&A hit wins.
	docsIdx := &mockIndex{vectorResults: []Result{
		{Content: "doc", Reference: "README.md", Score: 0.8},
	}}
	qaIdx := &mockIndex{vectorResults: []Result{
		{Content: "qa", Reference: "Q&A #1", Score: 0.1},
	}}

	out := newTestBase(docsIdx, qaIdx).Search(context.Background(), "query", 5, 3)
	if out.Results[0].Source != OriginQA {
		t.Errorf("first source = %s, want qa", out.Results[0].Source)
	}
}

func TestBaseSearchOneSourceDown(t *testing.T) {
	docsIdx := &mockIndex{vectorResults: []Result{
		{Content: "doc", Reference: "README.md", Score: 0.2},
	}}
	qaIdx := &mockIndex{
		vectorErr:  context.DeadlineExceeded,
		keywordErr: context.DeadlineExceeded,
	}

	out := newTestBase(docsIdx, qaIdx).Search(context.Background(), "install guide", 5, 3)
	if len(out.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(out.Results))
	}
	if out.QACount != 0 {
		t.Errorf("QACount = %d, want 0", out.QACount)
	}
	if !strings.Contains(out.Context, "공식 문서") {
		t.Error("context missing docs section")
	}
	if strings.Contains(out.Context, "관련 Q&A") {
		t.Error("context has Q&A section despite empty Q&A results")
	}
}

func TestBuildContextSections(t *testing.T) {
	results := []ScoredResult{
		{Result: Result{Content: "chunk one", Reference: "README.md"}, Source: OriginDocs},
		{Result: Result{Content: "Q: how?\n\nA: like this", Reference: "Q&A #1"}, Source: OriginQA},
		{Result: Result{Content: "chunk two", Reference: "CHANGELOG.md"}, Source: OriginDocs},
	}

	got := buildContext(results)

	docsIdx := strings.Index(got, "## 공식 문서 (GitHub)")
	qaIdx := strings.Index(got, "## 관련 Q&A")
	if docsIdx == -1 || qaIdx == -1 {
		t.Fatalf("missing section headings in %q", got)
	}
	if docsIdx > qaIdx {
		t.Error("docs section must precede Q&A section")
	}
	if !strings.Contains(got, "### README.md\nchunk one") {
		t.Error("doc entry missing reference header")
	}
	if !strings.Contains(got, "\n\n---\n\n") {
		t.Error("entries not separated by dividers")
	}
	// Q&A entries appear verbatim, without a reference header.
	if strings.Contains(got, "### Q&A #1") {
		t.Error("Q&A entry must not carry a reference header")
	}
}

func TestBuildContextBudget(t *testing.T) {
	big := strings.Repeat("x", maxDocsContextChars-10)
	results := []ScoredResult{
		{Result: Result{Content: big, Reference: "a.md"}, Source: OriginDocs},
		{Result: Result{Content: "this one no longer fits", Reference: "b.md"}, Source: OriginDocs},
	}

	got := buildContext(results)
	if !strings.Contains(got, big) {
		t.Fatal("first entry should fit within budget")
	}
	if strings.Contains(got, "no longer fits") {
		t.Error("second entry exceeds budget and must be dropped")
	}
}

func TestBuildContextEmpty(t *testing.T) {
	if got := buildContext(nil); got != "" {
		t.Errorf("empty results produced context %q", got)
	}
}

func TestBuildChatContext(t *testing.T) {
	docsIdx := &mockIndex{vectorResults: []Result{
		{Content: "d1", Reference: "README.md", Score: 0.1},
		{Content: "d2", Reference: "CHANGELOG.md", Score: 0.2},
	}}
	qaIdx := &mockIndex{vectorResults: []Result{
		{Content: "q1", Reference: "Q&A #1", Score: 0.15},
	}}

	cc := newTestBase(docsIdx, qaIdx).BuildChatContext(context.Background(), "question", 8)

	// Merged ascending by adjusted score: d1(0.1), q1(0.105), d2(0.2).
	want := []string{"README.md", "Q&A #1", "CHANGELOG.md"}
	if len(cc.SourcesUsed) != len(want) {
		t.Fatalf("got %d sources, want %d", len(cc.SourcesUsed), len(want))
	}
	for i, ref := range want {
		if cc.SourcesUsed[i] != ref {
			t.Errorf("SourcesUsed[%d] = %q, want %q", i, cc.SourcesUsed[i], ref)
		}
	}
	if cc.Context == "" {
		t.Error("expected non-empty context")
	}
}

func TestBuildChatContextSplitsLimits(t *testing.T) {
	// maxResults=8 splits into 5 doc slots and 3 Q&A slots.
	docsIdx := &mockIndex{vectorResults: manyResults(10, "doc")}
	qaIdx := &mockIndex{vectorResults: manyResults(10, "qa")}

	base := newTestBase(docsIdx, qaIdx)
	cc := base.BuildChatContext(context.Background(), "question", 8)

	if len(cc.SourcesUsed) != 8 {
		t.Fatalf("got %d sources, want 8", len(cc.SourcesUsed))
	}
}

func TestBaseReady(t *testing.T) {
	t.Run("both populated", func(t *testing.T) {
		docsIdx := &mockIndex{vectorResults: manyResults(1, "doc")}
		qaIdx := &mockIndex{vectorResults: manyResults(1, "qa")}
		r := newTestBase(docsIdx, qaIdx).Ready(context.Background())
		if !r.Docs || !r.QA {
			t.Errorf("readiness = %+v, want both true", r)
		}
	})

	t.Run("qa empty", func(t *testing.T) {
		docsIdx := &mockIndex{vectorResults: manyResults(1, "doc")}
		qaIdx := &mockIndex{}
		r := newTestBase(docsIdx, qaIdx).Ready(context.Background())
		if !r.Docs || r.QA {
			t.Errorf("readiness = %+v, want docs only", r)
		}
	})
}

func manyResults(n int, prefix string) []Result {
	results := make([]Result, n)
	for i := range results {
		results[i] = Result{
			Content:   prefix,
			Reference: prefix,
			Score:     float64(i) * 0.01,
		}
	}
	return results
}
