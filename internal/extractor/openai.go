package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/asp616848/live-call-insight/internal/logger"
)

// OpenAILLM implements LLM against any OpenAI-compatible chat endpoint.
type OpenAILLM struct {
	client *openai.Client
	config LLMConfig
	log    *logrus.Entry
}

func NewOpenAILLM(config LLMConfig) (*OpenAILLM, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set LLM_API_KEY)", ErrInvalidConfig)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}
	defaults := DefaultLLMConfig()
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = defaults.HTTPTimeout
	}
	if config.MaxRetryTime <= 0 {
		config.MaxRetryTime = defaults.MaxRetryTime
	}

	cc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cc.BaseURL = config.BaseURL
	}
	cc.HTTPClient = &http.Client{Timeout: config.HTTPTimeout}

	return &OpenAILLM{
		client: openai.NewClientWithConfig(cc),
		config: config,
		log:    logger.New().Component("extractor-llm"),
	}, nil
}

// Generate sends the prompt and returns the first choice's content.
// Transient failures are retried with exponential backoff; client errors
// other than rate limiting are not.
func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	req := openai.ChatCompletionRequest{
		Model: o.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: o.config.Temperature,
		MaxTokens:   o.config.MaxTokens,
	}

	var (
		out     string
		lastErr error
	)
	op := func() error {
		resp, err := o.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			o.log.WithField("error", err.Error()).Warn("llm request failed")
			if ctx.Err() != nil || isClientError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("no response generated")
			return lastErr
		}
		out = resp.Choices[0].Message.Content
		o.log.WithField("response_len", len(out)).Debug("llm response received")
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = o.config.MaxRetryTime
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, lastErr)
	}
	return out, nil
}

func isClientError(err error) bool {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}
