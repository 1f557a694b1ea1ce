package sentiment

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asp616848/live-call-insight/internal/logger"
	"github.com/asp616848/live-call-insight/internal/types"
)

const DefaultTimeout = 30 * time.Second

// Adapter calls the oracle under a deadline and reconciles its answer.
type Adapter struct {
	oracle  Oracle
	timeout time.Duration
	log     *logrus.Entry
}

type Option func(*Adapter)

func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(a *Adapter) { a.log = log }
}

// NewAdapter accepts a nil oracle; every call then uses the heuristic.
func NewAdapter(oracle Oracle, opts ...Option) *Adapter {
	a := &Adapter{
		oracle:  oracle,
		timeout: DefaultTimeout,
		log:     logger.New().Component("sentiment"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type batchResult struct {
	raw []byte
	err error
}

// Score returns a reconciled series for the two sentence lists. Oracle
// errors, timeouts and malformed answers all end in heuristic scoring.
func (a *Adapter) Score(ctx context.Context, user, ai []string) types.SentimentSeries {
	if len(user) == 0 && len(ai) == 0 {
		return align(nil, nil, newMeta())
	}
	if a.oracle == nil {
		return Fallback(user, ai)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The oracle may ignore ctx; the select bounds the wait regardless.
	done := make(chan batchResult, 1)
	go func() {
		raw, err := a.oracle.ScoreBatch(ctx, user, ai)
		done <- batchResult{raw: raw, err: err}
	}()

	var res batchResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	log := a.log.WithFields(logrus.Fields{
		"user_sentences": len(user),
		"ai_sentences":   len(ai),
	})
	if res.err != nil {
		log.WithError(res.err).Warn("sentiment oracle failed, using heuristic scores")
		return Fallback(user, ai)
	}

	series := Reconcile(res.raw, user, ai)
	if series.Meta[FlagOracleFailed] {
		log.Warn("sentiment oracle answer malformed, using heuristic scores")
	} else if series.Meta[FlagUserFallback] || series.Meta[FlagAIFallback] {
		log.Info("sentiment oracle answer incomplete, filled gaps heuristically")
	}
	return series
}

// ScoreConversation scores a parsed conversation record.
func (a *Adapter) ScoreConversation(ctx context.Context, conv types.Conversation) types.SentimentSeries {
	user, ai := conv.Texts()
	return a.Score(ctx, user, ai)
}
