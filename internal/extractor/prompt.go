package extractor

import (
	"fmt"
	"strings"
)

const (
	sentimentUserHeader = "User sentences:"
	sentimentAIHeader   = "AI sentences:"
	sentimentFooter     = "Return ONLY JSON."
	extractionMarker    = "EXTRACTION TASK"

	maxSentenceChars = 500
)

// BuildSentimentPrompt numbers each role's sentences from 1 so the oracle
// can answer with indices instead of echoing text.
func BuildSentimentPrompt(user, ai []string) string {
	return fmt.Sprintf(`You are a precise sentiment scoring engine. Score each sentence independently for sentiment on a 0 to 10 float scale where:
0 = extremely negative/distressed
2 = clearly negative
5 = neutral / mixed / informational
8 = clearly positive / supportive
10 = extremely positive / delighted / strongly reassuring

IMPORTANT:
- Judge ONLY the emotional valence contained in the sentence itself.
- Text may be transliterated Hindi; keep cultural and language nuance.
- Return STRICT JSON with this exact schema:
{
  "user": [{"index": <number>, "score": <float>}],
  "ai": [{"index": <number>, "score": <float>}]
}
Do NOT include the sentence text. Indices must match the numbering below.
If a sentence is purely procedural or neutral, score near 5.

%s
%s

%s
%s

%s No markdown.
`, sentimentUserHeader, Numbered(user), sentimentAIHeader, Numbered(ai), sentimentFooter)
}

// Numbered renders "1. text" lines, flattening newlines and truncating
// overly long sentences.
func Numbered(texts []string) string {
	lines := make([]string, 0, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(strings.ReplaceAll(t, "\n", " "))
		if r := []rune(t); len(r) > maxSentenceChars {
			t = string(r[:maxSentenceChars]) + "..."
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t))
	}
	return strings.Join(lines, "\n")
}

func BuildAnnotationPrompt(conversation string) string {
	return fmt.Sprintf(`You are analyzing a human-AI phone conversation.
Given the conversation below, return the analysis in JSON format with the following keys only:
- sentiment: one of ["positive", "neutral", "negative"]
- concerns: list of the user's main social or emotional concerns
- overview: a short summary of the call in 2-3 sentences
- user_tone: description of the tone or urgency in the user's queries
- emotion: a single word describing the user's primary emotion
- sentiment_score: a number from 0 (very negative) to 10 (very positive)

Conversation:
%s

Respond ONLY with valid JSON. Do not wrap the response in markdown or add explanation.
`, conversation)
}

func BuildExtractionPrompt(transcript string) string {
	return fmt.Sprintf(`%s
From the conversation transcript, extract in order of appearance:
- concern: user-mentioned problems, issues, or complaints
- action_item: the AI's promises, solutions, or policy mentions (include amounts/numbers)
- emotion: exact words/phrases showing the user's emotional state
Use exact text spans without paraphrasing. Provide meaningful attributes for context.

Return ONLY JSON with this schema:
{"extractions": [{"class": "concern|action_item|emotion", "text": "<exact span>", "attributes": {"<key>": "<value>"}}]}

Transcript:
%s
`, extractionMarker, transcript)
}
