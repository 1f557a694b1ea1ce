package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/asp616848/live-call-insight/internal/types"
)

var extractionClasses = map[string]bool{"concern": true, "action_item": true, "emotion": true}

type extractionWire struct {
	Extractions *[]struct {
		Class      string         `json:"class"`
		Text       string         `json:"text"`
		Attributes map[string]any `json:"attributes"`
	} `json:"extractions"`
}

// ExtractEntities pulls concern, action_item and emotion spans out of a
// transcript. Spans that do not occur in the transcript are dropped.
func ExtractEntities(ctx context.Context, llm LLM, transcript string) ([]types.Extraction, error) {
	raw, err := llm.Generate(ctx, BuildExtractionPrompt(transcript))
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}
	return ParseExtractions(raw, transcript)
}

func ParseExtractions(raw, transcript string) ([]types.Extraction, error) {
	var w extractionWire
	if err := DecodeStrict(raw, &w); err != nil {
		return nil, err
	}
	if w.Extractions == nil {
		return nil, fmt.Errorf("%w: missing extractions", ErrMalformed)
	}
	lower := strings.ToLower(transcript)
	out := make([]types.Extraction, 0, len(*w.Extractions))
	for _, e := range *w.Extractions {
		class := strings.ToLower(strings.TrimSpace(e.Class))
		text := strings.TrimSpace(e.Text)
		if !extractionClasses[class] || text == "" {
			continue
		}
		if !strings.Contains(lower, strings.ToLower(text)) {
			continue
		}
		out = append(out, types.Extraction{Class: class, Text: text, Attributes: e.Attributes})
	}
	return out, nil
}
