// Package sentiment scores every user and AI sentence of a call on a 0-10
// scale. Scores come from an unreliable oracle and are reconciled against
// the input so that each sentence position always has a value.
package sentiment

import (
	"context"

	"github.com/asp616848/live-call-insight/internal/extractor"
)

// Oracle returns the raw scoring answer for one call. The answer is
// expected to be {"user":[{"index":1,"score":7.5}],"ai":[...]} with
// 1-based indices, but nothing about it is trusted.
type Oracle interface {
	ScoreBatch(ctx context.Context, user, ai []string) ([]byte, error)
}

// LLMOracle asks a language model for scores using a numbered prompt.
type LLMOracle struct {
	llm extractor.LLM
}

func NewLLMOracle(llm extractor.LLM) *LLMOracle {
	return &LLMOracle{llm: llm}
}

func (o *LLMOracle) ScoreBatch(ctx context.Context, user, ai []string) ([]byte, error) {
	out, err := o.llm.Generate(ctx, extractor.BuildSentimentPrompt(user, ai))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(ctx context.Context, user, ai []string) ([]byte, error)

func (f OracleFunc) ScoreBatch(ctx context.Context, user, ai []string) ([]byte, error) {
	return f(ctx, user, ai)
}
