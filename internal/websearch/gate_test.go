package websearch

import "testing"

func TestShouldSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		ragCount int
		topScore float64
		want     bool
	}{
		{"trigger term latest", "what is the latest release?", 5, 0.1, true},
		{"trigger term korean", "최신 버전이 뭐예요?", 5, 0.1, true},
		{"trigger term error", "I hit an error during sync", 5, 0.1, true},
		{"trigger term install", "install instructions", 5, 0.1, true},
		{"trigger term how to", "how to configure agents", 5, 0.1, true},
		{"trigger case-insensitive", "LATEST VERSION", 5, 0.1, true},
		{"strong rag no trigger", "explain the pdca cycle", 5, 0.1, false},
		{"weak rag too few results", "explain the pdca cycle", 1, 0.1, true},
		{"weak rag poor top score", "explain the pdca cycle", 5, 0.6, true},
		{"boundary two results ok", "explain the pdca cycle", 2, 0.1, false},
		{"boundary score exactly 0.5 ok", "explain the pdca cycle", 2, 0.5, false},
		{"no results at all", "explain the pdca cycle", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldSearch(tt.query, tt.ragCount, tt.topScore)
			if got != tt.want {
				t.Errorf("ShouldSearch(%q, %d, %v) = %v, want %v",
					tt.query, tt.ragCount, tt.topScore, got, tt.want)
			}
		})
	}
}
