package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asp616848/live-call-insight/internal/cache"
	"github.com/asp616848/live-call-insight/internal/extractor"
	"github.com/asp616848/live-call-insight/internal/types"
)

type AnalysisOutcome struct {
	File              string                `json:"file"`
	Key               string                `json:"cache_key,omitempty"`
	Cached            bool                  `json:"cached"`
	Analysis          *types.AnalysisResult `json:"analysis,omitempty"`
	VisualizationPath string                `json:"visualization_path,omitempty"`
	Error             string                `json:"error,omitempty"`
}

// Analyze extracts concerns, action items and emotions from one
// conversation record and renders them as an HTML highlight view kept
// next to the cached result.
func (p *Processor) Analyze(ctx context.Context, path string) (AnalysisOutcome, error) {
	out := AnalysisOutcome{File: filepath.Base(path)}
	fail := func(err error) (AnalysisOutcome, error) {
		out.Error = err.Error()
		return out, err
	}

	key, err := cache.Fingerprint(path)
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("conversation %s: %w", out.File, ErrNotFound)
	}
	if err != nil {
		return fail(err)
	}
	out.Key = key.String()

	if entry, ok := p.analysisCache.Get(key); ok {
		var result types.AnalysisResult
		if err := json.Unmarshal(entry.Result, &result); err == nil {
			result.VisualizationHTML = string(entry.Artifacts[VisualizationArtifact])
			out.Cached = true
			out.Analysis = &result
			out.VisualizationPath = filepath.Join(p.analysisCache.Path(key), VisualizationArtifact)
			return out, nil
		}
		p.log.WithField("key", key).Warn("cached analysis unusable, recomputing")
	}

	if p.llm == nil {
		return fail(fmt.Errorf("%w: no oracle configured for entity extraction", extractor.ErrInvalidConfig))
	}
	conv, err := LoadConversation(path)
	if err != nil {
		return fail(err)
	}

	text := extractor.ConversationText(conv.Conversation)
	ectx, cancel := context.WithTimeout(ctx, p.oracleTimeout)
	extractions, err := extractor.ExtractEntities(ectx, p.llm, text)
	cancel()
	if err != nil {
		return fail(err)
	}
	html, err := extractor.RenderVisualization(out.File, text, extractions)
	if err != nil {
		return fail(err)
	}

	counts := conv.Counts()
	counts.ExtractedEntities = len(extractions)
	result := types.AnalysisResult{
		Metrics:             conv.Summary,
		Extractions:         extractions,
		ConversationSummary: counts,
		VisualizationHTML:   html,
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fail(err)
	}
	if err := p.analysisCache.Put(key, &cache.Entry{
		Result:    raw,
		Artifacts: map[string][]byte{VisualizationArtifact: []byte(html)},
	}); err != nil {
		p.log.WithError(err).Warn("failed to cache analysis")
	} else {
		out.VisualizationPath = filepath.Join(p.analysisCache.Path(key), VisualizationArtifact)
	}

	out.Analysis = &result
	return out, nil
}
