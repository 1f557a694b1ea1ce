package metrics

import (
	"strings"
	"testing"

	"github.com/asp616848/live-call-insight/internal/transcript"
	"github.com/asp616848/live-call-insight/internal/types"
)

func ptr(s string) *string { return &s }

func TestCompute_EmptyTranscriptRoundTrip(t *testing.T) {
	res, err := transcript.NewParser(transcript.DefaultOptions()).Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	m := Compute(res)
	if m.DurationSeconds != nil {
		t.Errorf("expected nil duration, got %v", *m.DurationSeconds)
	}
	if m.AverageResponseLatency != nil {
		t.Errorf("expected nil latency, got %v", *m.AverageResponseLatency)
	}
	if m.NoiseCount != 0 || m.UserTurnCount != 0 || m.AITurnCount != 0 {
		t.Errorf("expected zero counts, got %+v", m)
	}
}

func TestCompute_Counts(t *testing.T) {
	res := &transcript.Result{
		Segments: []types.Segment{
			{Speaker: types.SpeakerUser}, {Speaker: types.SpeakerAI},
			{Speaker: types.SpeakerUser}, {Speaker: types.SpeakerAI}, {Speaker: types.SpeakerAI},
		},
		LatencySamples: []float64{1, 2, 2},
		NoiseCount:     3,
		Metadata: types.CallMetadata{
			CallStart: ptr("2025-08-01T10:00:00"),
			CallEnd:   ptr("2025-08-01T10:01:30.5"),
		},
	}
	m := Compute(res)
	if m.UserTurnCount != 2 || m.AITurnCount != 3 {
		t.Errorf("unexpected turn counts: %+v", m)
	}
	if m.NoiseCount != 3 {
		t.Errorf("expected noise 3, got %d", m.NoiseCount)
	}
	if m.DurationSeconds == nil || *m.DurationSeconds != 90.5 {
		t.Errorf("expected duration 90.5, got %v", m.DurationSeconds)
	}
	if m.AverageResponseLatency == nil || *m.AverageResponseLatency != 1.67 {
		t.Errorf("expected latency 1.67, got %v", m.AverageResponseLatency)
	}

	again := Compute(res)
	if *again.DurationSeconds != *m.DurationSeconds || *again.AverageResponseLatency != *m.AverageResponseLatency {
		t.Error("compute is not deterministic")
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name  string
		md    types.CallMetadata
		want  float64
		isNil bool
	}{
		{"missing end", types.CallMetadata{CallStart: ptr("2025-08-01T10:00:00")}, 0, true},
		{"missing start", types.CallMetadata{CallEnd: ptr("2025-08-01T10:00:00")}, 0, true},
		{"garbage", types.CallMetadata{CallStart: ptr("yesterday"), CallEnd: ptr("today")}, 0, true},
		{"zoned", types.CallMetadata{CallStart: ptr("2025-08-01T10:00:00+05:30"), CallEnd: ptr("2025-08-01T04:31:00Z")}, 60, false},
		{"space separated", types.CallMetadata{CallStart: ptr("2025-08-01 10:00:00"), CallEnd: ptr("2025-08-01 10:00:42")}, 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Duration(tt.md)
			if tt.isNil {
				if got != nil {
					t.Errorf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAverageLatency_Empty(t *testing.T) {
	if AverageLatency(nil) != nil {
		t.Error("expected nil for no samples")
	}
}
