package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asp616848/live-call-insight/internal/cache"
	"github.com/asp616848/live-call-insight/internal/types"
)

type SentimentResult struct {
	File   string                 `json:"file"`
	Key    string                 `json:"cache_key,omitempty"`
	Cached bool                   `json:"cached"`
	Series *types.SentimentSeries `json:"series,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// SentimentFlow returns the per-sentence sentiment series for one
// conversation record. Results are looked up in memory, then on disk,
// and only then computed; the series is never partial because the
// adapter falls back to heuristic scores.
func (p *Processor) SentimentFlow(ctx context.Context, path string) (SentimentResult, error) {
	res := SentimentResult{File: filepath.Base(path)}

	key, err := cache.Fingerprint(path)
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("conversation %s: %w", res.File, ErrNotFound)
	}
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	res.Key = key.String()

	series, computed, err := p.memo.Do(key, func() (types.SentimentSeries, bool, error) {
		if s, ok := p.cachedSeries(key); ok {
			return s, false, nil
		}
		conv, err := LoadConversation(path)
		if err != nil {
			return types.SentimentSeries{}, false, err
		}
		s := p.sentiment.ScoreConversation(ctx, conv)
		p.storeSeries(key, s)
		return s, true, nil
	})
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	res.Cached = !computed
	res.Series = &series
	return res, nil
}

func (p *Processor) cachedSeries(key cache.Key) (types.SentimentSeries, bool) {
	var s types.SentimentSeries
	entry, ok := p.sentimentCache.Get(key)
	if !ok {
		return s, false
	}
	if err := json.Unmarshal(entry.Result, &s); err != nil || len(s.User) == 0 || len(s.User) != len(s.AI) {
		p.log.WithField("key", key).Warn("cached sentiment series unusable, recomputing")
		return s, false
	}
	return s, true
}

func (p *Processor) storeSeries(key cache.Key, s types.SentimentSeries) {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err == nil {
		err = p.sentimentCache.Put(key, &cache.Entry{Result: raw})
	}
	if err != nil {
		// the series is still returned; only the next lookup pays again
		p.log.WithError(err).Warn("failed to cache sentiment series")
	}
}
