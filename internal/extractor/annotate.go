package extractor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/asp616848/live-call-insight/internal/types"
)

type annotationWire struct {
	Sentiment      *string  `json:"sentiment"`
	Concerns       []string `json:"concerns"`
	Overview       string   `json:"overview"`
	UserTone       string   `json:"user_tone"`
	Emotion        string   `json:"emotion"`
	SentimentScore *float64 `json:"sentiment_score"`
}

var sentimentLabels = map[string]bool{"positive": true, "neutral": true, "negative": true}

// Annotate asks the oracle for a call-level annotation of the conversation
// text. Any transport or schema failure is returned as an error; callers
// record it on the summary instead of aborting.
func Annotate(ctx context.Context, llm LLM, conversation string) (types.Annotation, error) {
	raw, err := llm.Generate(ctx, BuildAnnotationPrompt(conversation))
	if err != nil {
		return types.Annotation{}, fmt.Errorf("annotate: %w", err)
	}
	return ParseAnnotation(raw)
}

func ParseAnnotation(raw string) (types.Annotation, error) {
	var w annotationWire
	if err := DecodeStrict(raw, &w); err != nil {
		return types.Annotation{}, err
	}
	if w.Sentiment == nil {
		return types.Annotation{}, fmt.Errorf("%w: missing sentiment", ErrMalformed)
	}
	label := strings.ToLower(strings.TrimSpace(*w.Sentiment))
	if !sentimentLabels[label] {
		return types.Annotation{}, fmt.Errorf("%w: unknown sentiment %q", ErrMalformed, *w.Sentiment)
	}
	if w.SentimentScore == nil || math.IsNaN(*w.SentimentScore) {
		return types.Annotation{}, fmt.Errorf("%w: missing sentiment_score", ErrMalformed)
	}
	score := ClampScore(*w.SentimentScore)

	concerns := make([]string, 0, len(w.Concerns))
	for _, c := range w.Concerns {
		if c = strings.TrimSpace(c); c != "" {
			concerns = append(concerns, c)
		}
	}
	return types.Annotation{
		Sentiment:      label,
		Concerns:       concerns,
		Overview:       strings.TrimSpace(w.Overview),
		UserTone:       strings.TrimSpace(w.UserTone),
		Emotion:        strings.TrimSpace(w.Emotion),
		SentimentScore: &score,
	}, nil
}

// Score bounds shared by annotation and per-sentence sentiment.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// ClampScore bounds a score to [MinScore, MaxScore] whatever the oracle claims.
func ClampScore(v float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, v))
}

// ConversationText renders segments as "speaker: text" lines.
func ConversationText(segments []types.Segment) string {
	var b strings.Builder
	for i, s := range segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(s.Speaker))
		b.WriteString(": ")
		b.WriteString(s.Text)
	}
	return b.String()
}
