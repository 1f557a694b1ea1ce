// Package transcript turns raw call logs into speaker-attributed segments.
//
// A log is line oriented. Optional header lines carry call metadata:
//
//	Call started at: 2025-08-01T10:00:00
//	Call ended at: 2025-08-01T10:03:12
//	Stream SID: MZ123
//
// and body lines carry one delivered fragment each:
//
//	[10:00:04] User: namaste
//	[10:00:06] AI (chunk): Namaste, main aapki
//
// Anything else is ignored.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/asp616848/live-call-insight/internal/types"
)

const (
	headerCallStart = "Call started at:"
	headerCallEnd   = "Call ended at:"
	headerStreamSID = "Stream SID:"

	secondsPerDay = 24 * 60 * 60
	maxLineBytes  = 1 << 20
)

var linePattern = regexp.MustCompile(`^\[(\d{2}):(\d{2}):(\d{2})\] (.+?): (.+)$`)

type Options struct {
	// AIMarker is matched as a substring of the speaker tag.
	AIMarker string
	// NoiseMarker is matched case-insensitively inside user text.
	NoiseMarker string
	// MergeGap is the silence after which consecutive AI fragments
	// start a new segment.
	MergeGap time.Duration
}

func DefaultOptions() Options {
	return Options{
		AIMarker:    "AI",
		NoiseMarker: "<noise>",
		MergeGap:    2 * time.Second,
	}
}

type Result struct {
	Segments       []types.Segment
	Metadata       types.CallMetadata
	LatencySamples []float64
	NoiseCount     int
}

type Parser struct {
	opts Options
}

func NewParser(opts Options) *Parser {
	if opts.AIMarker == "" {
		opts.AIMarker = DefaultOptions().AIMarker
	}
	return &Parser{opts: opts}
}

func (p *Parser) ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse consumes r to the end. Only read failures are returned as errors;
// malformed lines are skipped.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	st := &state{opts: p.opts, res: &Result{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		st.line(strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	st.finish()
	return st.res, nil
}

// accumulator buffers fragments of one speaker until a flush.
type accumulator struct {
	speaker   types.Speaker
	parts     []string
	timestamp string
}

func (a *accumulator) open() bool { return len(a.parts) > 0 }

func (a *accumulator) add(text, timestamp string) {
	if !a.open() {
		a.timestamp = timestamp
	}
	a.parts = append(a.parts, text)
}

type state struct {
	opts Options
	res  *Result

	user accumulator
	ai   accumulator

	lastAI    int // seconds of day of the previous AI line
	hasLastAI bool
}

func (s *state) line(line string) {
	switch {
	case strings.HasPrefix(line, headerCallStart):
		s.res.Metadata.CallStart = header(line, headerCallStart)
		return
	case strings.HasPrefix(line, headerCallEnd):
		s.res.Metadata.CallEnd = header(line, headerCallEnd)
		return
	case strings.HasPrefix(line, headerStreamSID):
		s.res.Metadata.StreamID = header(line, headerStreamSID)
		return
	}

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	clock, ok := secondsOfDay(m[1], m[2], m[3])
	if !ok {
		return
	}
	stamp := s.timestamp(m[1] + ":" + m[2] + ":" + m[3])
	text := strings.TrimSpace(m[5])

	if strings.Contains(m[4], s.opts.AIMarker) {
		s.onAI(clock, stamp, text)
		return
	}
	s.onUser(stamp, text)
}

func (s *state) onAI(clock int, stamp, text string) {
	s.flush(&s.user)

	if s.hasLastAI {
		gap := elapsed(s.lastAI, clock)
		if time.Duration(gap)*time.Second > s.opts.MergeGap {
			s.flush(&s.ai)
		}
		s.res.LatencySamples = append(s.res.LatencySamples, float64(gap))
	}
	s.ai.speaker = types.SpeakerAI
	s.ai.add(text, stamp)
	s.lastAI, s.hasLastAI = clock, true
}

func (s *state) onUser(stamp, text string) {
	s.flush(&s.ai)

	if s.opts.NoiseMarker != "" &&
		strings.Contains(strings.ToLower(text), strings.ToLower(s.opts.NoiseMarker)) {
		s.res.NoiseCount++
	}
	s.user.speaker = types.SpeakerUser
	s.user.add(text, stamp)
}

func (s *state) flush(a *accumulator) {
	if !a.open() {
		return
	}
	s.res.Segments = append(s.res.Segments, types.Segment{
		Speaker:   a.speaker,
		Text:      strings.Join(a.parts, " "),
		Timestamp: a.timestamp,
	})
	a.parts = nil
	a.timestamp = ""
}

// finish flushes whatever is still open. Every role switch flushes the
// other role, so at most one accumulator is open here.
func (s *state) finish() {
	s.flush(&s.user)
	s.flush(&s.ai)
}

// timestamp joins the call date, when known, with a line clock.
func (s *state) timestamp(clock string) string {
	if s.res.Metadata.CallStart == nil {
		return clock
	}
	date := *s.res.Metadata.CallStart
	if i := strings.IndexAny(date, "T "); i > 0 {
		date = date[:i]
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return clock
	}
	return date + "T" + clock
}

func header(line, prefix string) *string {
	v := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if v == "" {
		return nil
	}
	return &v
}

func secondsOfDay(hh, mm, ss string) (int, bool) {
	t, err := time.Parse(time.TimeOnly, hh+":"+mm+":"+ss)
	if err != nil {
		return 0, false
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), true
}

// elapsed returns the forward distance between two clock readings,
// wrapping across midnight.
func elapsed(from, to int) int {
	d := to - from
	if d < 0 {
		d += secondsPerDay
	}
	return d
}
