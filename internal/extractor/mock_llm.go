package extractor

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLLM is a deterministic LLM used for offline runs and tests.
type MockLLM struct {
	// Response is returned verbatim when set.
	Response string
	// Error, if set, is returned instead of a response.
	Error error

	mu         sync.Mutex
	lastPrompt string
	calls      int
}

func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.lastPrompt = prompt
	m.calls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return generateMockResponse(prompt), nil
}

func (m *MockLLM) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// generateMockResponse answers each prompt kind with a neutral, well-formed
// document so offline runs exercise the full decode path.
func generateMockResponse(prompt string) string {
	switch {
	case strings.Contains(prompt, sentimentUserHeader):
		user := countNumbered(section(prompt, sentimentUserHeader, sentimentAIHeader))
		ai := countNumbered(section(prompt, sentimentAIHeader, sentimentFooter))
		return fmt.Sprintf(`{"user": %s, "ai": %s}`, neutralSeries(user), neutralSeries(ai))
	case strings.Contains(prompt, extractionMarker):
		return `{"extractions": []}`
	default:
		return `{"sentiment": "neutral", "concerns": [], "overview": "Mock overview.", "user_tone": "calm", "emotion": "neutral", "sentiment_score": 5}`
	}
}

func section(s, from, to string) string {
	i := strings.Index(s, from)
	if i < 0 {
		return ""
	}
	s = s[i+len(from):]
	if j := strings.Index(s, to); j >= 0 {
		s = s[:j]
	}
	return s
}

func countNumbered(block string) int {
	n := 0
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if dot := strings.Index(line, "."); dot > 0 && isDigits(line[:dot]) {
			n++
		}
	}
	return n
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func neutralSeries(n int) string {
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, fmt.Sprintf(`{"index": %d, "score": 5.0}`, i))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
