package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/asp616848/live-call-insight/internal/types"
)

func TestDecodeStrict(t *testing.T) {
	type doc struct {
		A int `json:"a"`
	}
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"plain", `{"a": 1}`, 1, false},
		{"whitespace", "\n  {\"a\": 2}  \n", 2, false},
		{"json fence", "```json\n{\"a\": 3}\n```", 3, false},
		{"bare fence", "```\n{\"a\": 4}\n```", 4, false},
		{"prose before", `Sure! {"a": 5}`, 0, true},
		{"prose after", `{"a": 6} hope this helps`, 0, true},
		{"two values", `{"a": 7}{"a": 8}`, 0, true},
		{"empty", "   ", 0, true},
		{"truncated", `{"a": `, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d doc
			err := DecodeStrict(tt.raw, &d)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.A != tt.want {
				t.Errorf("expected %d, got %d", tt.want, d.A)
			}
		})
	}
}

func TestParseAnnotation(t *testing.T) {
	a, err := ParseAnnotation(`{"sentiment": "Negative", "concerns": ["loan", " ", "crop loss"], "overview": " Loan trouble. ", "user_tone": "urgent", "emotion": "anxious", "sentiment_score": 14}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Sentiment != "negative" {
		t.Errorf("expected normalized label, got %q", a.Sentiment)
	}
	if len(a.Concerns) != 2 {
		t.Errorf("expected blank concern dropped, got %v", a.Concerns)
	}
	if a.SentimentScore == nil || *a.SentimentScore != 10 {
		t.Errorf("expected clamped score 10, got %v", a.SentimentScore)
	}
	if a.Overview != "Loan trouble." {
		t.Errorf("expected trimmed overview, got %q", a.Overview)
	}

	bad := []string{
		`{"concerns": []}`,
		`{"sentiment": "ecstatic", "sentiment_score": 5}`,
		`{"sentiment": "neutral"}`,
		`["neutral"]`,
		`not json`,
	}
	for _, raw := range bad {
		if _, err := ParseAnnotation(raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestAnnotate_PropagatesLLMError(t *testing.T) {
	_, err := Annotate(context.Background(), NewMockLLMWithError(errors.New("gateway down")), "user: hi")
	if err == nil || !strings.Contains(err.Error(), "gateway down") {
		t.Errorf("expected wrapped llm error, got %v", err)
	}
}

func TestAnnotate_MockDefault(t *testing.T) {
	m := NewMockLLM("")
	a, err := Annotate(context.Background(), m, "user: hi\nai: hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Sentiment != "neutral" || *a.SentimentScore != 5 {
		t.Errorf("unexpected mock annotation: %+v", a)
	}
	if !strings.Contains(m.LastPrompt(), "user: hi") {
		t.Error("prompt does not contain the conversation")
	}
}

func TestParseExtractions(t *testing.T) {
	transcript := "USER: byaaj itna high hai\nAI: 2000 crore ke projects laaye hain"
	raw := `{"extractions": [
		{"class": "concern", "text": "byaaj itna high hai", "attributes": {"type": "loan repayment"}},
		{"class": "action_item", "text": "2000 crore ke projects"},
		{"class": "emotion", "text": "not in transcript"},
		{"class": "rumor", "text": "byaaj"}
	]}`
	got, err := ParseExtractions(raw, transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 extractions, got %d: %+v", len(got), got)
	}
	if got[0].Attributes["type"] != "loan repayment" {
		t.Errorf("attributes not kept: %+v", got[0])
	}
	if _, err := ParseExtractions(`{"items": []}`, transcript); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for missing key, got %v", err)
	}
}

func TestMockLLM_SentimentPromptShape(t *testing.T) {
	prompt := BuildSentimentPrompt([]string{"a", "b"}, []string{"c", "d", "e"})
	out, err := NewMockLLM("").Generate(context.Background(), prompt)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		User []map[string]float64 `json:"user"`
		AI   []map[string]float64 `json:"ai"`
	}
	if err := DecodeStrict(out, &doc); err != nil {
		t.Fatalf("mock output not strict JSON: %v", err)
	}
	if len(doc.User) != 2 || len(doc.AI) != 3 {
		t.Errorf("expected 2/3 scores, got %d/%d", len(doc.User), len(doc.AI))
	}
}

func TestNumbered_Truncates(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := Numbered([]string{"line\nbreak", long})
	lines := strings.Split(got, "\n")
	if lines[0] != "1. line break" {
		t.Errorf("expected flattened first line, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "...") || len(lines[1]) != len("2. ")+500+3 {
		t.Errorf("expected truncated second line, got len %d", len(lines[1]))
	}
}

func TestRenderVisualization(t *testing.T) {
	transcript := "USER: fasal <sukh> gayi\nAI: madad milegi"
	html, err := RenderVisualization("call_1", transcript, []types.Extraction{
		{Class: "concern", Text: "fasal <sukh> gayi"},
		{Class: "action_item", Text: "madad milegi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `<mark class="concern" title="concern">fasal &lt;sukh&gt; gayi</mark>`) {
		t.Errorf("concern not highlighted/escaped:\n%s", html)
	}
	if !strings.Contains(html, `<mark class="action_item"`) {
		t.Error("action item not highlighted")
	}
}

func TestConversationText(t *testing.T) {
	got := ConversationText([]types.Segment{
		{Speaker: types.SpeakerUser, Text: "hi"},
		{Speaker: types.SpeakerAI, Text: "hello"},
	})
	if got != "user: hi\nai: hello" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-3, MinScore},
		{0, 0},
		{7.25, 7.25},
		{10, 10},
		{14, MaxScore},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
