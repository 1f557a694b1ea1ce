package dataset

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/asp616848/live-call-insight/internal/aggregator"
	"github.com/asp616848/live-call-insight/internal/types"
)

func ptr[T any](v T) *T { return &v }

func TestWorkbookRoundTrip(t *testing.T) {
	full := types.CallSummary{
		Filename:    "call_01.txt",
		StreamSID:   ptr("MZ42"),
		CallStarted: ptr("2025-08-01T10:00:00"),
		CallEnded:   ptr("2025-08-01T10:01:30"),
		CallMetrics: types.CallMetrics{
			DurationSeconds:        ptr(90.0),
			AverageResponseLatency: ptr(2.5),
			NoiseCount:             1,
			UserTurnCount:          2,
			AITurnCount:            3,
		},
		Annotation: types.Annotation{
			Sentiment:      "negative",
			Concerns:       []string{"loan repayment", "crop loss"},
			Overview:       "User asked about loan waivers.",
			UserTone:       "worried",
			Emotion:        "anxious",
			SentimentScore: ptr(2.5),
		},
	}
	bare := types.CallSummary{Filename: "empty.txt", Error: "annotate: LLM request failed"}
	summaries := []types.CallSummary{full, bare}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteWorkbook(path, summaries, aggregator.Aggregate(summaries, 3)); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	got, err := LoadSummaries(path)
	if err != nil {
		t.Fatalf("LoadSummaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], full) {
		t.Errorf("full summary mismatch:\n got  %+v\n want %+v", got[0], full)
	}
	if !reflect.DeepEqual(got[1], bare) {
		t.Errorf("bare summary mismatch:\n got  %+v\n want %+v", got[1], bare)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	v, err := f.GetCellValue(SummarySheet, "B2")
	if err != nil || v != "2" {
		t.Errorf("total_calls cell = %q, %v", v, err)
	}
}

func TestLoadSummaries_HeaderLookup(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Notes", "Sentiment", "Filename", "Duration Seconds"},
		{"x", "positive", "a.txt", 12.5},
		{"y", "neutral", "", 3},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "edited.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadSummaries(path)
	if err != nil {
		t.Fatalf("LoadSummaries: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows without filename should be skipped, got %d", len(got))
	}
	if got[0].Filename != "a.txt" || got[0].Sentiment != "positive" || got[0].DurationSeconds == nil || *got[0].DurationSeconds != 12.5 {
		t.Errorf("unexpected summary %+v", got[0])
	}
}

func TestLoadSummaries_Errors(t *testing.T) {
	if _, err := LoadSummaries(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}

	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetCellValue("Sheet1", "A1", "something")
	path := filepath.Join(t.TempDir(), "nofilename.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSummaries(path); err == nil {
		t.Error("expected error when filename column is missing")
	}
}
