package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/asp616848/live-call-insight/internal/logger"
	"github.com/asp616848/live-call-insight/internal/types"
)

// LoadSummaries reads call summaries back from a workbook. Columns are
// located by header name so hand-edited sheets with reordered or extra
// columns still load; rows without a filename are skipped.
func LoadSummaries(path string) ([]types.CallSummary, error) {
	log := logger.New().WithField("component", "dataset.loader").WithField("path", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheet := CallsSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.ReplaceAll(name, " ", "_")
		if _, dup := col[name]; !dup {
			col[name] = i
		}
	}
	if _, ok := col["filename"]; !ok {
		return nil, fmt.Errorf("missing filename column")
	}
	log.WithField("columns", len(col)).Debug("detected workbook columns")

	var out []types.CallSummary
	skipped := 0
	for _, r := range rows[1:] {
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(r) {
				return ""
			}
			return strings.TrimSpace(r[i])
		}
		if get("filename") == "" {
			skipped++
			continue
		}
		s := types.CallSummary{
			Filename:    get("filename"),
			StreamSID:   optString(get("stream_sid")),
			CallStarted: optString(get("call_started")),
			CallEnded:   optString(get("call_ended")),
			Error:       get("error"),
		}
		s.DurationSeconds = optFloat(get("duration_seconds"))
		s.AverageResponseLatency = optFloat(get("average_ai_response_latency"))
		s.NoiseCount, _ = strconv.Atoi(get("noise_count"))
		s.UserTurnCount, _ = strconv.Atoi(get("total_user_messages"))
		s.AITurnCount, _ = strconv.Atoi(get("total_ai_responses"))
		s.Sentiment = get("sentiment")
		s.SentimentScore = optFloat(get("sentiment_score"))
		s.Emotion = get("emotion")
		s.UserTone = get("user_tone")
		s.Overview = get("overview")
		if c := get("concerns"); c != "" {
			for _, part := range strings.Split(c, strings.TrimSpace(concernSep)) {
				if part = strings.TrimSpace(part); part != "" {
					s.Concerns = append(s.Concerns, part)
				}
			}
		}
		out = append(out, s)
	}
	log.WithFields(map[string]interface{}{"calls": len(out), "skipped": skipped}).Info("workbook loaded")
	return out, nil
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
