package actionable

import (
	"strings"
	"testing"

	"github.com/asp616848/live-call-insight/internal/aggregator"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		rollup  aggregator.Rollup
		insight string
		action  string
	}{
		{
			name:    "no calls",
			rollup:  aggregator.Rollup{},
			insight: "No calls processed yet",
		},
		{
			name: "mostly negative",
			rollup: aggregator.Rollup{
				TotalCalls:         4,
				SentimentBreakdown: map[string]int{"negative": 2, "neutral": 2},
				TopConcerns:        []aggregator.ConcernCount{{Concern: "loan", Count: 2}, {Concern: "water", Count: 1}},
			},
			insight: "Negative sentiment in 50% of calls",
			action:  "loan, water",
		},
		{
			name: "slow responses",
			rollup: aggregator.Rollup{
				TotalCalls:         3,
				AverageLatency:     3.25,
				SentimentBreakdown: map[string]int{"positive": 3},
			},
			insight: "Slow AI responses (3.25s average)",
		},
		{
			name: "healthy",
			rollup: aggregator.Rollup{
				TotalCalls:         3,
				AverageLatency:     1.1,
				SentimentBreakdown: map[string]int{"negative": 1, "positive": 2},
			},
			insight: "No strong negative pattern detected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Generate(tt.rollup)
			if card.Insight != tt.insight {
				t.Errorf("insight = %q, want %q", card.Insight, tt.insight)
			}
			if tt.action != "" && !strings.Contains(card.Action, tt.action) {
				t.Errorf("action = %q, want it to mention %q", card.Action, tt.action)
			}
		})
	}
}
