package aggregator

import (
	"math"
	"sort"
	"strings"

	"github.com/asp616848/live-call-insight/internal/types"
)

const DefaultTopConcerns = 3

var sentimentWeight = map[string]float64{"positive": 1, "neutral": 0, "negative": -1}

type ConcernCount struct {
	Concern string `json:"concern"`
	Count   int    `json:"count"`
}

// Rollup summarizes a set of processed calls. AverageSentiment maps
// labels to +1/0/-1; unlabelled calls count as neutral.
type Rollup struct {
	TotalCalls          int            `json:"total_calls"`
	AverageCallDuration float64        `json:"average_call_duration"`
	AverageLatency      float64        `json:"average_ai_response_latency"`
	AverageSentiment    float64        `json:"average_sentiment_score"`
	SentimentBreakdown  map[string]int `json:"sentiment_breakdown"`
	TopConcerns         []ConcernCount `json:"top_concerns"`
	NoiseEvents         int            `json:"noise_events"`
	FailedAnnotations   int            `json:"failed_annotations"`
}

func Aggregate(summaries []types.CallSummary, topN int) Rollup {
	if topN <= 0 {
		topN = DefaultTopConcerns
	}
	r := Rollup{
		TotalCalls:         len(summaries),
		SentimentBreakdown: map[string]int{},
		TopConcerns:        []ConcernCount{},
	}

	var durations, latencies, sentiments []float64
	concerns := map[string]int{}
	for _, s := range summaries {
		if s.DurationSeconds != nil {
			durations = append(durations, *s.DurationSeconds)
		}
		if s.AverageResponseLatency != nil {
			latencies = append(latencies, *s.AverageResponseLatency)
		}
		label := strings.ToLower(strings.TrimSpace(s.Sentiment))
		if _, ok := sentimentWeight[label]; !ok {
			label = "neutral"
		}
		r.SentimentBreakdown[label]++
		sentiments = append(sentiments, sentimentWeight[label])

		seen := map[string]bool{}
		for _, c := range s.Concerns {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			concerns[c]++
		}
		r.NoiseEvents += s.NoiseCount
		if s.Error != "" {
			r.FailedAnnotations++
		}
	}

	r.AverageCallDuration = mean(durations)
	r.AverageLatency = mean(latencies)
	r.AverageSentiment = mean(sentiments)
	r.TopConcerns = top(concerns, topN)
	return r
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var total float64
	for _, v := range vs {
		total += v
	}
	return math.Round(total/float64(len(vs))*100) / 100
}

func top(counts map[string]int, n int) []ConcernCount {
	out := make([]ConcernCount, 0, len(counts))
	for c, k := range counts {
		out = append(out, ConcernCount{Concern: c, Count: k})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Concern < out[j].Concern
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// NegativeShare is the fraction of calls labelled negative.
func (r Rollup) NegativeShare() float64 {
	if r.TotalCalls == 0 {
		return 0
	}
	return float64(r.SentimentBreakdown["negative"]) / float64(r.TotalCalls)
}
