package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asp616848/live-call-insight/internal/extractor"
	"github.com/asp616848/live-call-insight/internal/metrics"
	"github.com/asp616848/live-call-insight/internal/types"
)

// Result is returned for every transcript handed to ProcessTranscript.
type Result struct {
	Source     string            `json:"source"`
	Output     string            `json:"output,omitempty"`
	Skipped    bool              `json:"skipped,omitempty"`
	Summary    types.CallSummary `json:"summary"`
	Segments   int               `json:"segments"`
	DurationMs int64             `json:"duration_ms"`
	Error      string            `json:"error,omitempty"`
}

// OutputPath is where the conversation record for a transcript lands.
func (p *Processor) OutputPath(source string) string {
	base := filepath.Base(source)
	return filepath.Join(p.conversationsDir, strings.TrimSuffix(base, filepath.Ext(base))+".json")
}

// ProcessTranscript parses one raw transcript, computes its metrics,
// annotates it and writes the conversation record. An annotation failure
// is kept on Summary.Error and does not fail the call; only parse and
// write failures return an error.
func (p *Processor) ProcessTranscript(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Source: path}
	log := p.log.WithField("transcript", filepath.Base(path))

	parsed, err := p.parser.ParseFile(path)
	if err != nil {
		res.Error = fmt.Sprintf("parse error: %v", err)
		res.DurationMs = time.Since(start).Milliseconds()
		return res, err
	}

	md := parsed.Metadata
	summary := types.CallSummary{
		Filename:    filepath.Base(path),
		StreamSID:   md.StreamID,
		CallStarted: md.CallStart,
		CallEnded:   md.CallEnd,
		CallMetrics: metrics.Compute(parsed),
	}
	if len(parsed.Segments) > 0 && p.llm != nil {
		actx, cancel := context.WithTimeout(ctx, p.oracleTimeout)
		ann, err := extractor.Annotate(actx, p.llm, extractor.ConversationText(parsed.Segments))
		cancel()
		if err != nil {
			log.WithError(err).Warn("annotation failed, keeping metrics only")
			summary.Error = err.Error()
		} else {
			summary.Annotation = ann
		}
	}

	segments := parsed.Segments
	if segments == nil {
		segments = []types.Segment{}
	}
	conv := types.Conversation{Summary: summary, Conversation: segments}

	out := p.OutputPath(path)
	if err := writeJSONAtomic(out, conv); err != nil {
		res.Error = fmt.Sprintf("write error: %v", err)
		res.DurationMs = time.Since(start).Milliseconds()
		return res, err
	}

	res.Output = out
	res.Summary = summary
	res.Segments = len(segments)
	res.DurationMs = time.Since(start).Milliseconds()
	log.WithFields(logrus.Fields{
		"segments":    res.Segments,
		"noise_count": summary.NoiseCount,
		"duration_ms": res.DurationMs,
	}).Info("transcript processed")
	return res, nil
}
