package docsync

import "strings"

const (
	// chunkTargetChars is the soft chunk size: a chunk closes once adding the
	// next sentence would push it past this.
	chunkTargetChars = 400

	// chunkOverlapChars approximates the overlap between adjacent chunks.
	// The actual overlap is the trailing chunkOverlapChars/5 words (~20) of
	// the previous chunk.
	chunkOverlapChars = 100

	// chunkMinChars drops fragments too short to retrieve usefully.
	chunkMinChars = 50
)

// ChunkContent splits text into overlapping chunks on sentence boundaries.
//
// Sentences are delimited by '.', '!', '?', their fullwidth forms, and
// newlines. Chunks near chunkTargetChars are emitted with the previous
// chunk's trailing words carried over, and anything at or under chunkMinChars
// is discarded.
func ChunkContent(content string) []string {
	sentences := splitSentences(content)

	var chunks []string
	var current strings.Builder

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}

	for _, sentence := range sentences {
		if current.Len()+len(sentence) > chunkTargetChars && current.Len() > 0 {
			flush()
			overlap := trailingWords(current.String(), chunkOverlapChars/5)
			current.Reset()
			current.WriteString(overlap)
			current.WriteString(" ")
			current.WriteString(sentence)
		} else {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)
		}
	}
	flush()

	filtered := chunks[:0]
	for _, c := range chunks {
		if len(c) > chunkMinChars {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// splitSentences cuts text after each sentence terminator, dropping the
// whitespace that follows it.
func splitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		sb.WriteRune(r)
		if !isSentenceEnd(r) {
			continue
		}
		sentences = append(sentences, sb.String())
		sb.Reset()
		// Swallow whitespace between sentences.
		for i+1 < len(runes) && isSpace(runes[i+1]) {
			i++
		}
	}
	if sb.Len() > 0 {
		sentences = append(sentences, sb.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '\n':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// trailingWords returns the last n whitespace-separated words of s.
func trailingWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
