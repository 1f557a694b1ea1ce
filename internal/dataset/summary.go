// Package dataset exports call summaries to an xlsx workbook and reads
// them back.
package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/asp616848/live-call-insight/internal/aggregator"
	"github.com/asp616848/live-call-insight/internal/logger"
	"github.com/asp616848/live-call-insight/internal/types"
)

const (
	CallsSheet   = "Calls"
	SummarySheet = "Summary"

	concernSep = "; "
)

// Columns of the Calls sheet, in order.
var callColumns = []string{
	"filename",
	"stream_sid",
	"call_started",
	"call_ended",
	"duration_seconds",
	"average_ai_response_latency",
	"noise_count",
	"total_user_messages",
	"total_ai_responses",
	"sentiment",
	"sentiment_score",
	"emotion",
	"user_tone",
	"concerns",
	"overview",
	"error",
}

// WriteWorkbook writes one row per call plus a roll-up sheet.
func WriteWorkbook(path string, summaries []types.CallSummary, rollup aggregator.Rollup) error {
	log := logger.New().WithField("component", "dataset.workbook").WithField("path", path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CallsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	header := make([]any, len(callColumns))
	for i, c := range callColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(CallsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(CallsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, s := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := callRow(s)
		if err := f.SetSheetRow(CallsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(CallsSheet, "A", "A", 28)
	_ = f.SetColWidth(CallsSheet, "N", "O", 60)

	if err := writeRollup(f, rollup, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		log.WithError(err).Error("save failed")
		return fmt.Errorf("save workbook: %w", err)
	}
	log.WithField("calls", len(summaries)).Info("workbook written")
	return nil
}

func callRow(s types.CallSummary) []any {
	return []any{
		s.Filename,
		str(s.StreamSID),
		str(s.CallStarted),
		str(s.CallEnded),
		num(s.DurationSeconds),
		num(s.AverageResponseLatency),
		s.NoiseCount,
		s.UserTurnCount,
		s.AITurnCount,
		s.Sentiment,
		num(s.SentimentScore),
		s.Emotion,
		s.UserTone,
		strings.Join(s.Concerns, concernSep),
		s.Overview,
		s.Error,
	}
}

func writeRollup(f *excelize.File, r aggregator.Rollup, bold int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	rows := [][]any{
		{"metric", "value"},
		{"total_calls", r.TotalCalls},
		{"average_call_duration", r.AverageCallDuration},
		{"average_ai_response_latency", r.AverageLatency},
		{"average_sentiment_score", r.AverageSentiment},
		{"noise_events", r.NoiseEvents},
		{"failed_annotations", r.FailedAnnotations},
	}
	for _, label := range []string{"positive", "neutral", "negative"} {
		rows = append(rows, []any{"sentiment_" + label, r.SentimentBreakdown[label]})
	}
	for i, c := range r.TopConcerns {
		rows = append(rows, []any{fmt.Sprintf("top_concern_%d", i+1), fmt.Sprintf("%s (%d)", c.Concern, c.Count)})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "B", 32)
	return f.SetRowStyle(SummarySheet, 1, 1, bold)
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func num(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
