package sentiment

import (
	"encoding/json"
	"math"

	"github.com/asp616848/live-call-insight/internal/extractor"
	"github.com/asp616848/live-call-insight/internal/types"
)

// Repair flags recorded in SentimentSeries.Meta.
const (
	FlagOracleFailed         = "oracle_failed"
	FlagUserFallback         = "user_fallback"
	FlagAIFallback           = "ai_fallback"
	FlagUserBaselineInjected = "user_baseline_injected"
	FlagAIBaselineInjected   = "ai_baseline_injected"
	FlagBothBaselineInjected = "both_baseline_injected"
	FlagUserPadded           = "user_padded"
	FlagAIPadded             = "ai_padded"
)

type response struct {
	User *[]json.RawMessage `json:"user"`
	AI   *[]json.RawMessage `json:"ai"`
}

type item struct {
	Index *float64 `json:"index"`
	Score *float64 `json:"score"`
}

// parseResponse accepts only an object carrying both role arrays.
func parseResponse(raw []byte) (*response, error) {
	var r response
	if err := extractor.DecodeStrict(string(raw), &r); err != nil {
		return nil, err
	}
	if r.User == nil || r.AI == nil {
		return nil, extractor.ErrMalformed
	}
	return &r, nil
}

// scored is a dense, position-ordered score list for one role.
type scored []float64

// repair aligns oracle items onto n input positions. Items without an
// integral index or a numeric score, out of range, or repeating an index
// already seen are dropped; every position left empty takes the
// heuristic score of its sentence.
func repair(items []json.RawMessage, texts []string) (out scored, fellBack bool) {
	n := len(texts)
	out = make(scored, n)
	have := make([]bool, n)
	for _, rawItem := range items {
		var it item
		if err := json.Unmarshal(rawItem, &it); err != nil {
			continue
		}
		if it.Index == nil || it.Score == nil || *it.Index != math.Trunc(*it.Index) {
			continue
		}
		idx := int(*it.Index)
		if idx < 1 || idx > n || have[idx-1] {
			continue
		}
		have[idx-1] = true
		out[idx-1] = extractor.ClampScore(*it.Score)
	}
	for i := range out {
		if !have[i] {
			out[i] = HeuristicScore(texts[i])
			fellBack = true
		}
	}
	return out, fellBack
}

func heuristicAll(texts []string) scored {
	out := make(scored, len(texts))
	for i, t := range texts {
		out[i] = HeuristicScore(t)
	}
	return out
}

func (s scored) mean() float64 {
	if len(s) == 0 {
		return Neutral
	}
	var total float64
	for _, v := range s {
		total += v
	}
	return total / float64(len(s))
}

func (s scored) padTo(n int) scored {
	if len(s) >= n {
		return s
	}
	fill := round2(s.mean())
	for len(s) < n {
		s = append(s, fill)
	}
	return s
}

func (s scored) points() []types.ScorePoint {
	out := make([]types.ScorePoint, len(s))
	for i, v := range s {
		out[i] = types.ScorePoint{Index: i + 1, Score: round2(extractor.ClampScore(v))}
	}
	return out
}

// Reconcile turns a raw oracle answer into a complete series for the
// given sentences. It never fails: an unusable answer degrades to the
// heuristic for every sentence.
func Reconcile(raw []byte, user, ai []string) types.SentimentSeries {
	resp, err := parseResponse(raw)
	if err != nil {
		return Fallback(user, ai)
	}

	meta := newMeta()
	u, uFell := repair(*resp.User, user)
	a, aFell := repair(*resp.AI, ai)
	meta[FlagUserFallback] = uFell
	meta[FlagAIFallback] = aFell
	return align(u, a, meta)
}

// Fallback scores every sentence heuristically. Used when the oracle
// errored, timed out or answered with something unparseable.
func Fallback(user, ai []string) types.SentimentSeries {
	meta := newMeta()
	meta[FlagOracleFailed] = true
	meta[FlagUserFallback] = len(user) > 0
	meta[FlagAIFallback] = len(ai) > 0
	return align(heuristicAll(user), heuristicAll(ai), meta)
}

func newMeta() map[string]bool {
	return map[string]bool{FlagUserFallback: false, FlagAIFallback: false}
}

// align equalizes the two role sequences. An empty role mirrors the
// other role's mean, an entirely empty call gets one neutral point per
// role, and any remaining length difference is padded with the shorter
// role's own mean.
func align(u, a scored, meta map[string]bool) types.SentimentSeries {
	switch {
	case len(u) == 0 && len(a) == 0:
		u, a = scored{Neutral}, scored{Neutral}
		meta[FlagBothBaselineInjected] = true
	case len(u) == 0:
		u = baseline(a)
		meta[FlagUserBaselineInjected] = true
	case len(a) == 0:
		a = baseline(u)
		meta[FlagAIBaselineInjected] = true
	}

	switch {
	case len(u) < len(a):
		u = u.padTo(len(a))
		meta[FlagUserPadded] = true
	case len(a) < len(u):
		a = a.padTo(len(u))
		meta[FlagAIPadded] = true
	}

	return types.SentimentSeries{User: u.points(), AI: a.points(), Meta: meta}
}

func baseline(other scored) scored {
	base := round2(other.mean())
	out := make(scored, len(other))
	for i := range out {
		out[i] = base
	}
	return out
}
