package docsync

import (
	"strings"
	"testing"
)

func TestChunkContentShortInput(t *testing.T) {
	t.Run("under minimum dropped", func(t *testing.T) {
		if got := ChunkContent("Too short."); len(got) != 0 {
			t.Errorf("got %d chunks, want 0", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := ChunkContent(""); len(got) != 0 {
			t.Errorf("got %d chunks, want 0", len(got))
		}
	})

	t.Run("single chunk when under target", func(t *testing.T) {
		text := "This sentence is comfortably longer than the minimum chunk length threshold."
		got := ChunkContent(text)
		if len(got) != 1 {
			t.Fatalf("got %d chunks, want 1", len(got))
		}
		if got[0] != text {
			t.Errorf("chunk = %q, want input unchanged", got[0])
		}
	})
}

func TestChunkContentSplitsAtTarget(t *testing.T) {
	// 40 sentences of ~60 chars each must produce multiple chunks, none of
	// them wildly past the target size.
	sentence := "The quick brown fox jumps over the lazy sleeping farm dog."
	text := strings.Repeat(sentence+" ", 40)

	chunks := ChunkContent(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		// Target plus one sentence plus carried overlap words.
		if len(c) > chunkTargetChars+len(sentence)+chunkOverlapChars {
			t.Errorf("chunks[%d] length %d exceeds bound", i, len(c))
		}
		if len(c) <= chunkMinChars {
			t.Errorf("chunks[%d] length %d under minimum", i, len(c))
		}
	}
}

func TestChunkContentOverlap(t *testing.T) {
	sentence := "Alpha bravo charlie delta echo foxtrot golf hotel india juliett."
	text := strings.Repeat(sentence+" ", 20)

	chunks := ChunkContent(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	// Each chunk after the first starts with words carried from its
	// predecessor's tail.
	prevWords := strings.Fields(chunks[0])
	carry := chunkOverlapChars / 5
	if len(prevWords) > carry {
		prevWords = prevWords[len(prevWords)-carry:]
	}
	if !strings.HasPrefix(chunks[1], strings.Join(prevWords, " ")) {
		t.Errorf("chunks[1] does not begin with the previous chunk's trailing words")
	}
}

func TestChunkContentCoverage(t *testing.T) {
	// Every sentence of the input must appear in some chunk.
	sentences := []string{
		"Install the plugin by running the marketplace command in your terminal session.",
		"Configuration lives in the settings file under your home directory somewhere.",
		"The development pipeline has nine phases from schema design to deployment.",
		"Agents monitor quality gates and report gaps between design and implementation.",
		"Feedback from users accumulates in the archive and improves future answers.",
		"Synchronization replaces the entire index with freshly fetched documentation.",
		"Vector search falls back to keyword matching when the index is unavailable.",
		"Each phase produces artifacts consumed by the next phase in the pipeline.",
	}
	text := strings.Join(sentences, " ")

	chunks := ChunkContent(text)
	joined := strings.Join(chunks, "\n")
	for _, s := range sentences {
		if !strings.Contains(joined, s) {
			t.Errorf("sentence lost during chunking: %q", s)
		}
	}
}

func TestChunkContentCJKDelimiters(t *testing.T) {
	sentence := "이 문장은 한국어 마침표로 끝나는 충분히 긴 문서 내용을 담고 있습니다。"
	text := strings.Repeat(sentence, 12)

	chunks := ChunkContent(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2 for fullwidth delimiters", len(chunks))
	}
}

func TestCategoryForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"skills/pdca-methodology/SKILL.md", "skills"},
		{"agents/gap-detector.md", "agents"},
		{"bkit-system/SYSTEM_PROMPT.md", "system"},
		{"bkit-system/bkit-rules/SKILL.md", "system"},
		{"README.md", "overview"},
		{"CHANGELOG.md", "changelog"},
		{"docs/unknown.md", "general"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := CategoryForPath(tt.path); got != tt.want {
				t.Errorf("CategoryForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
