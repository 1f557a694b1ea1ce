// Package processor runs the per-call flows: transcript to conversation
// record, conversation to sentiment series, and conversation to entity
// analysis. Every flow reports failure on its result value so a caller
// looping over many calls can keep going.
package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asp616848/live-call-insight/internal/cache"
	"github.com/asp616848/live-call-insight/internal/extractor"
	"github.com/asp616848/live-call-insight/internal/logger"
	"github.com/asp616848/live-call-insight/internal/sentiment"
	"github.com/asp616848/live-call-insight/internal/transcript"
	"github.com/asp616848/live-call-insight/internal/types"
)

const (
	NamespaceSentiment = "sentiment"
	NamespaceAnalysis  = "analysis"

	VisualizationArtifact = "visualization.html"
)

var ErrNotFound = errors.New("not found")

// Deps are the collaborators a Processor works with. Caches are owned by
// the caller so tests and commands control their lifecycle.
type Deps struct {
	Parser *transcript.Parser
	// LLM annotates calls and extracts entities; nil disables both.
	LLM       extractor.LLM
	Sentiment *sentiment.Adapter

	SentimentCache *cache.DiskCache
	AnalysisCache  *cache.DiskCache
	Memo           *cache.Memo[types.SentimentSeries]

	ConversationsDir string
	// OracleTimeout bounds each annotation and extraction call.
	OracleTimeout time.Duration
}

type Processor struct {
	parser    *transcript.Parser
	llm       extractor.LLM
	sentiment *sentiment.Adapter

	sentimentCache *cache.DiskCache
	analysisCache  *cache.DiskCache
	memo           *cache.Memo[types.SentimentSeries]

	conversationsDir string
	oracleTimeout    time.Duration
	log              *logrus.Entry
}

func New(d Deps) (*Processor, error) {
	switch {
	case d.ConversationsDir == "":
		return nil, fmt.Errorf("processor: conversations dir is required")
	case d.SentimentCache == nil || d.AnalysisCache == nil:
		return nil, fmt.Errorf("processor: sentiment and analysis caches are required")
	}
	if d.Parser == nil {
		d.Parser = transcript.NewParser(transcript.DefaultOptions())
	}
	if d.Sentiment == nil {
		d.Sentiment = sentiment.NewAdapter(nil)
	}
	if d.Memo == nil {
		d.Memo = cache.NewMemo[types.SentimentSeries](0)
	}
	if d.OracleTimeout <= 0 {
		d.OracleTimeout = sentiment.DefaultTimeout
	}
	return &Processor{
		parser:           d.Parser,
		llm:              d.LLM,
		sentiment:        d.Sentiment,
		sentimentCache:   d.SentimentCache,
		analysisCache:    d.AnalysisCache,
		memo:             d.Memo,
		conversationsDir: d.ConversationsDir,
		oracleTimeout:    d.OracleTimeout,
		log:              logger.New().Component("processor"),
	}, nil
}

func (p *Processor) ConversationsDir() string { return p.conversationsDir }
