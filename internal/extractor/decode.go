package extractor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DecodeStrict decodes exactly one JSON value from raw into v. The only
// tolerated decoration is a single markdown fence enclosing the whole
// answer; anything else (prose around the JSON, trailing values) is
// ErrMalformed.
func DecodeStrict(raw string, v any) error {
	body := unfence(strings.TrimSpace(raw))
	if body == "" {
		return fmt.Errorf("%w: empty response", ErrMalformed)
	}
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after JSON value", ErrMalformed)
	}
	return nil
}

func unfence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	// drop the info string, e.g. ```json
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.ContainsAny(inner[:nl], "{[") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}
