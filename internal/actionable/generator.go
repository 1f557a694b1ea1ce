package actionable

import (
	"fmt"
	"strings"

	"github.com/asp616848/live-call-insight/internal/aggregator"
)

const (
	negativeShareThreshold = 0.35
	slowLatencySeconds     = 2.0
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Generate picks the most pressing signal in a run roll-up.
func Generate(r aggregator.Rollup) ActionCard {
	if r.TotalCalls == 0 {
		return ActionCard{
			Insight: "No calls processed yet",
			Action:  "Parse transcripts before reporting",
			Impact:  "None",
		}
	}
	if share := r.NegativeShare(); share >= negativeShareThreshold {
		action := "Review negative calls and update the assistant's guidance"
		if len(r.TopConcerns) > 0 {
			names := make([]string, len(r.TopConcerns))
			for i, c := range r.TopConcerns {
				names[i] = c.Concern
			}
			action = fmt.Sprintf("Prepare scripted answers for: %s", strings.Join(names, ", "))
		}
		return ActionCard{
			Insight: fmt.Sprintf("Negative sentiment in %.0f%% of calls", share*100),
			Action:  action,
			Impact:  "Fewer distressed callers and repeat calls",
		}
	}
	if r.AverageLatency > slowLatencySeconds {
		return ActionCard{
			Insight: fmt.Sprintf("Slow AI responses (%.2fs average)", r.AverageLatency),
			Action:  "Shorten responses or stream smaller chunks",
			Impact:  "Less dead air on calls",
		}
	}
	return ActionCard{
		Insight: "No strong negative pattern detected",
		Action:  "Monitor and collect more data",
		Impact:  "Low immediate intervention",
	}
}
