package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/asp616848/live-call-insight/internal/pipeline"
	"github.com/asp616848/live-call-insight/internal/processor"
)

var (
	parseForce bool
	parseDir   string
)

var parseCmd = &cobra.Command{
	Use:   "parse [transcript.txt ...]",
	Short: "Parse transcripts into conversation records",
	Long: `Parse raw call transcripts into conversation records with call metrics
and an oracle annotation, one JSON file per transcript.

With no arguments every .txt file in the transcripts directory is parsed,
skipping those whose record already exists unless --force is given.

Examples:
  callinsight parse
  callinsight parse --dir ./logs --force
  callinsight parse processed_logs/call_01.txt`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseForce, "force", false, "Reparse transcripts that already have a record")
	parseCmd.Flags().StringVar(&parseDir, "dir", "", "Transcripts directory (default from config)")
}

func runParse(cmd *cobra.Command, args []string) error {
	proc, err := newProcessor()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var results []processor.Result
	if len(args) > 0 {
		for _, path := range args {
			res, _ := proc.ProcessTranscript(ctx, path)
			results = append(results, res)
		}
	} else {
		dir := parseDir
		if dir == "" {
			dir = cfg.Paths.Transcripts
		}
		rep, err := pipeline.New(proc, pipeline.Options{Workers: cfg.Workers, Force: parseForce}).Run(ctx, dir)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(rep)
		}
		results = rep.Results
		defer fmt.Printf("\n%s processed, %s skipped, %s failed (run %s)\n",
			okStyle.Render(fmt.Sprint(rep.Processed)),
			warnStyle.Render(fmt.Sprint(rep.Skipped)),
			errStyle.Render(fmt.Sprint(rep.Failed)),
			rep.RunID)
	}

	if jsonOutput {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("No transcripts found")
		return nil
	}
	printParseResults(results)
	return nil
}

func printParseResults(results []processor.Result) {
	cols := []column{{"TRANSCRIPT", 28}, {"STATUS", 10}, {"TURNS U/AI", 12}, {"DURATION", 10}, {"LATENCY", 9}, {"SENTIMENT", 11}}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		switch {
		case r.Skipped:
			status = "skipped"
		case r.Error != "":
			status = "failed"
		case r.Summary.Error != "":
			status = "partial"
		}
		s := r.Summary
		turns, sentimentLabel := "-", "-"
		if !r.Skipped && r.Error == "" {
			turns = fmt.Sprintf("%d/%d", s.UserTurnCount, s.AITurnCount)
			if s.Sentiment != "" {
				sentimentLabel = s.Sentiment
			}
		}
		rows = append(rows, []string{
			filepath.Base(r.Source), status, turns,
			optFloat(s.DurationSeconds), optFloat(s.AverageResponseLatency), sentimentLabel,
		})
	}
	printTable(cols, rows)
	for _, r := range results {
		if r.Error != "" {
			fmt.Println(errStyle.Render(fmt.Sprintf("%s: %s", filepath.Base(r.Source), r.Error)))
		} else if r.Summary.Error != "" {
			fmt.Println(warnStyle.Render(fmt.Sprintf("%s: annotation: %s", filepath.Base(r.Source), r.Summary.Error)))
		}
	}
}
