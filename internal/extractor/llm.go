// Package extractor talks to the generative-text oracle: it owns the
// provider-agnostic LLM interface, the OpenAI-compatible gateway client,
// a deterministic mock, the prompts, and strict decoding of the oracle's
// JSON answers.
package extractor

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
	ErrMalformed     = errors.New("malformed oracle response")
)

// LLM defines the interface for interacting with language models.
// Implementations must be safe for concurrent use.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMConfig holds common configuration options for LLM providers.
type LLMConfig struct {
	// BaseURL of an OpenAI-compatible gateway; empty means api.openai.com.
	BaseURL string
	APIKey  string
	Model   string

	Temperature float32
	MaxTokens   int

	// HTTPTimeout bounds a single attempt, MaxRetryTime all attempts.
	HTTPTimeout  time.Duration
	MaxRetryTime time.Duration
}

func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:        "gemini-2.5-flash",
		MaxTokens:    2000,
		HTTPTimeout:  25 * time.Second,
		MaxRetryTime: 45 * time.Second,
	}
}
