package prompt

import "strings"

// categoryRules maps category to its trigger substrings. Order matters, so
// the rules are walked via categoryOrder: the first category with a matching
// term wins.
var categoryOrder = []string{
	"installation", "skills", "pdca", "agents", "troubleshooting", "pipeline",
}

var categoryRules = map[string][]string{
	"installation":    {"install", "설치", "setup", "설정"},
	"skills":          {"skill", "스킬", "/"},
	"pdca":            {"pdca", "plan", "design"},
	"agents":          {"agent", "에이전트"},
	"troubleshooting": {"error", "에러", "오류", "problem", "문제"},
	"pipeline":        {"pipeline", "파이프라인", "phase", "단계"},
}

// DetectCategory classifies a question by keyword rules.
// Slash commands land in "skills" because every bkit slash command is one.
func DetectCategory(text string) string {
	lower := strings.ToLower(text)
	for _, category := range categoryOrder {
		for _, term := range categoryRules[category] {
			if strings.Contains(lower, term) {
				return category
			}
		}
	}
	return "general"
}

// traditionalGlyphs are characters specific to Traditional Chinese. The list
// is a heuristic and misclassifies Traditional text that happens to avoid
// these glyphs; a known weakness, kept for answer-locale continuity.
const traditionalGlyphs = "國學書體語點機關車門電腦網頁裡種這說開認視聽寫買賣圖書館學習環境關係發現經驗處話題當時實間麼個們來為會從無與過對還進東車長門開關頭風飛馬魚鳥黃齊齒龍龜"

// DetectLanguage guesses the language of a question from its script.
// Checks run in priority order: Hangul, kana, then Han ideographs split into
// Traditional and Simplified by glyph list. Everything else is English.
func DetectLanguage(text string) string {
	hasHangul := false
	hasKana := false
	hasHan := false

	for _, r := range text {
		switch {
		case r >= 0xAC00 && r <= 0xD7AF:
			hasHangul = true
		case (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF):
			hasKana = true
		case r >= 0x4E00 && r <= 0x9FFF:
			hasHan = true
		}
	}

	switch {
	case hasHangul:
		return "ko"
	case hasKana:
		return "ja"
	case hasHan:
		if strings.ContainsAny(text, traditionalGlyphs) {
			return "zh-TW"
		}
		return "zh"
	default:
		return "en"
	}
}
