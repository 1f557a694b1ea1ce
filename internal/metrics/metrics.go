// Package metrics derives call-level numbers from a parsed transcript.
// Everything here is pure: identical input gives identical output.
package metrics

import (
	"math"
	"time"

	"github.com/asp616848/live-call-insight/internal/transcript"
	"github.com/asp616848/live-call-insight/internal/types"
)

// Accepted call header layouts, tried in order.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

func Compute(res *transcript.Result) types.CallMetrics {
	if res == nil {
		return types.CallMetrics{}
	}
	m := types.CallMetrics{
		DurationSeconds:        Duration(res.Metadata),
		AverageResponseLatency: AverageLatency(res.LatencySamples),
		NoiseCount:             res.NoiseCount,
	}
	for _, s := range res.Segments {
		switch s.Speaker {
		case types.SpeakerUser:
			m.UserTurnCount++
		case types.SpeakerAI:
			m.AITurnCount++
		}
	}
	return m
}

// Duration is call_end - call_start in seconds, or nil when either side is
// missing or unparseable.
func Duration(md types.CallMetadata) *float64 {
	if md.CallStart == nil || md.CallEnd == nil {
		return nil
	}
	start, ok := parseTime(*md.CallStart)
	if !ok {
		return nil
	}
	end, ok := parseTime(*md.CallEnd)
	if !ok {
		return nil
	}
	d := end.Sub(start).Seconds()
	return &d
}

func AverageLatency(samples []float64) *float64 {
	if len(samples) == 0 {
		return nil
	}
	total := 0.0
	for _, s := range samples {
		total += s
	}
	avg := Round2(total / float64(len(samples)))
	return &avg
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
