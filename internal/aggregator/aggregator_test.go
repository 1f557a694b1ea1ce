package aggregator

import (
	"testing"

	"github.com/asp616848/live-call-insight/internal/types"
)

func f(v float64) *float64 { return &v }

func summary(sentiment string, dur, lat *float64, concerns ...string) types.CallSummary {
	s := types.CallSummary{}
	s.Sentiment = sentiment
	s.DurationSeconds = dur
	s.AverageResponseLatency = lat
	s.Concerns = concerns
	return s
}

func TestAggregate(t *testing.T) {
	failed := summary("", f(30), nil)
	failed.Error = "annotate: LLM request failed"
	failed.NoiseCount = 2

	r := Aggregate([]types.CallSummary{
		summary("negative", f(60), f(1.5), "Loan repayment", "crop loss"),
		summary("Positive", f(120), f(2.5), "loan repayment "),
		summary("negative", nil, f(2), "crop loss", "crop loss", "water"),
		failed,
	}, 2)

	if r.TotalCalls != 4 {
		t.Errorf("total = %d, want 4", r.TotalCalls)
	}
	if r.AverageCallDuration != 70 {
		t.Errorf("average duration = %v, want 70", r.AverageCallDuration)
	}
	if r.AverageLatency != 2 {
		t.Errorf("average latency = %v, want 2", r.AverageLatency)
	}
	if r.AverageSentiment != -0.25 {
		t.Errorf("average sentiment = %v, want -0.25", r.AverageSentiment)
	}
	want := map[string]int{"negative": 2, "positive": 1, "neutral": 1}
	for k, v := range want {
		if r.SentimentBreakdown[k] != v {
			t.Errorf("breakdown[%s] = %d, want %d", k, r.SentimentBreakdown[k], v)
		}
	}
	if len(r.TopConcerns) != 2 ||
		r.TopConcerns[0] != (ConcernCount{"crop loss", 2}) ||
		r.TopConcerns[1] != (ConcernCount{"loan repayment", 2}) {
		t.Errorf("unexpected top concerns: %+v", r.TopConcerns)
	}
	if r.FailedAnnotations != 1 || r.NoiseEvents != 2 {
		t.Errorf("failed=%d noise=%d", r.FailedAnnotations, r.NoiseEvents)
	}
	if r.NegativeShare() != 0.5 {
		t.Errorf("negative share = %v, want 0.5", r.NegativeShare())
	}
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate(nil, 0)
	if r.TotalCalls != 0 || r.AverageCallDuration != 0 || r.AverageLatency != 0 || len(r.TopConcerns) != 0 {
		t.Errorf("unexpected rollup for no calls: %+v", r)
	}
	if r.TopConcerns == nil || r.SentimentBreakdown == nil {
		t.Error("collections should be empty, not nil")
	}
}
