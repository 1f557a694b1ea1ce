// internal/types/summary_models.go
package types

// --------------------------------------------
// Metrics derived from the parsed transcript
// --------------------------------------------
type CallMetrics struct {
	DurationSeconds        *float64 `json:"duration_seconds"`
	AverageResponseLatency *float64 `json:"average_ai_response_latency"`
	NoiseCount             int      `json:"noise_count"`
	UserTurnCount          int      `json:"total_user_messages"`
	AITurnCount            int      `json:"total_ai_responses"`
}

// --------------------------------------------
// Oracle annotation block
// --------------------------------------------
type Annotation struct {
	Sentiment      string   `json:"sentiment,omitempty"` // positive|neutral|negative
	Concerns       []string `json:"concerns,omitempty"`
	Overview       string   `json:"overview,omitempty"`
	UserTone       string   `json:"user_tone,omitempty"`
	Emotion        string   `json:"emotion,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"` // 0–10
}

// --------------------------------------------
// Call summary (flattened on the wire)
// --------------------------------------------
type CallSummary struct {
	Filename    string  `json:"filename"`
	StreamSID   *string `json:"stream_sid"`
	CallStarted *string `json:"call_started"`
	CallEnded   *string `json:"call_ended"`
	CallMetrics
	Annotation
	// Error carries the annotation failure; metrics stay valid.
	Error string `json:"error,omitempty"`
}

// --------------------------------------------
// Per-sentence sentiment series
// --------------------------------------------
type ScorePoint struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

type SentimentSeries struct {
	User []ScorePoint    `json:"user"`
	AI   []ScorePoint    `json:"ai"`
	Meta map[string]bool `json:"meta"`
}

// --------------------------------------------
// Entity extraction analysis
// --------------------------------------------
type Extraction struct {
	Class      string         `json:"class"` // concern|action_item|emotion
	Text       string         `json:"text"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type ConversationCounts struct {
	TotalMessages     int `json:"total_messages"`
	UserMessages      int `json:"user_messages"`
	AIMessages        int `json:"ai_messages"`
	ExtractedEntities int `json:"extracted_entities"`
}

type AnalysisResult struct {
	Metrics             CallSummary        `json:"metrics"`
	Extractions         []Extraction       `json:"extractions"`
	ConversationSummary ConversationCounts `json:"conversation_summary"`
	VisualizationHTML   string             `json:"-"`
}
