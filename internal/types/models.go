package types

type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerAI   Speaker = "ai"
)

// Segment is one continuous speaker turn after merge/flush rules are applied.
type Segment struct {
	Speaker   Speaker `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
}

type CallMetadata struct {
	CallStart *string `json:"call_start"`
	CallEnd   *string `json:"call_end"`
	StreamID  *string `json:"stream_id"`
}

// Conversation is the parsed record persisted one file per source transcript.
type Conversation struct {
	Summary      CallSummary `json:"summary"`
	Conversation []Segment   `json:"conversation"`
}

// Texts returns the segment texts split by role, preserving order.
func (c Conversation) Texts() (user, ai []string) {
	for _, s := range c.Conversation {
		switch s.Speaker {
		case SpeakerUser:
			user = append(user, s.Text)
		case SpeakerAI:
			ai = append(ai, s.Text)
		}
	}
	return user, ai
}

// Counts reports per-role segment counts.
func (c Conversation) Counts() ConversationCounts {
	out := ConversationCounts{TotalMessages: len(c.Conversation)}
	for _, s := range c.Conversation {
		if s.Speaker == SpeakerUser {
			out.UserMessages++
		} else {
			out.AIMessages++
		}
	}
	return out
}
