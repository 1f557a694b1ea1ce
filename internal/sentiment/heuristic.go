package sentiment

import (
	"math"
	"strings"

	"github.com/asp616848/live-call-insight/internal/extractor"
)

const (
	Neutral     = 5.0
	MinScore    = extractor.MinScore
	MaxScore    = extractor.MaxScore
	lexicalStep = 1.2
)

// Keywords are matched as substrings of the lowercased sentence; each
// distinct keyword counts once.
var (
	negativeWords = []string{
		"problem", "samasya", "karz", "loan", "byaj", "mafi", "nahi", "nahin",
		"burden", "loss", "damage", "fail", "issue", "confused", "anxious",
	}
	positiveWords = []string{
		"achha", "theek", "fayda", "hope", "sahi", "improve", "kam", "kamkar",
		"solution", "help", "support", "relief", "relieved",
	}
)

// HeuristicScore is the local lexical fallback used wherever the oracle
// gave no usable score.
func HeuristicScore(text string) float64 {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return Neutral
	}
	pos := countKeywords(t, positiveWords)
	neg := countKeywords(t, negativeWords)
	return extractor.ClampScore(Neutral + float64(pos-neg)*lexicalStep)
}

func countKeywords(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
