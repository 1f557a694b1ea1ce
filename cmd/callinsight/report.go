package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asp616848/live-call-insight/internal/actionable"
	"github.com/asp616848/live-call-insight/internal/aggregator"
	"github.com/asp616848/live-call-insight/internal/dataset"
	"github.com/asp616848/live-call-insight/internal/types"
)

var (
	reportXLSX  string
	reportInput string
	reportTop   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Roll up all parsed calls",
	Long: `Summarize every parsed conversation: call count, average duration and
latency, sentiment breakdown and the most frequent concerns, followed by a
suggested action.

Examples:
  callinsight report
  callinsight report --xlsx calls.xlsx
  callinsight report --from-xlsx calls.xlsx`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportXLSX, "xlsx", "", "Also export summaries to an xlsx workbook")
	reportCmd.Flags().StringVar(&reportInput, "from-xlsx", "", "Read summaries from a previously exported workbook")
	reportCmd.Flags().IntVar(&reportTop, "top", aggregator.DefaultTopConcerns, "Number of top concerns")
}

func runReport(cmd *cobra.Command, args []string) error {
	var (
		summaries []types.CallSummary
		err       error
	)
	if reportInput != "" {
		summaries, err = dataset.LoadSummaries(reportInput)
	} else {
		proc, perr := newProcessor()
		if perr != nil {
			return perr
		}
		summaries, err = proc.Summaries()
	}
	if err != nil {
		return err
	}

	rollup := aggregator.Aggregate(summaries, reportTop)
	card := actionable.Generate(rollup)

	if reportXLSX != "" {
		if err := dataset.WriteWorkbook(reportXLSX, summaries, rollup); err != nil {
			return err
		}
	}
	if jsonOutput {
		return printJSON(map[string]any{"rollup": rollup, "action_card": card})
	}

	fmt.Println(titleStyle.Render("Call roll-up"))
	printField("total calls", rollup.TotalCalls)
	printField("average call duration (s)", fmt.Sprintf("%.2f", rollup.AverageCallDuration))
	printField("average AI latency (s)", fmt.Sprintf("%.2f", rollup.AverageLatency))
	printField("average sentiment (-1..1)", fmt.Sprintf("%.2f", rollup.AverageSentiment))
	printField("sentiment", fmt.Sprintf("positive %d, neutral %d, negative %d",
		rollup.SentimentBreakdown["positive"], rollup.SentimentBreakdown["neutral"], rollup.SentimentBreakdown["negative"]))
	printField("noise events", rollup.NoiseEvents)
	printField("failed annotations", rollup.FailedAnnotations)
	for i, c := range rollup.TopConcerns {
		printField(fmt.Sprintf("top concern %d", i+1), fmt.Sprintf("%s (%d)", c.Concern, c.Count))
	}
	fmt.Println()
	fmt.Println(cardStyle.Render(fmt.Sprintf("%s\n%s\n%s",
		titleStyle.Render(card.Insight),
		valueStyle.Render("Action: "+card.Action),
		labelStyle.Render("Impact: "+card.Impact))))

	if reportXLSX != "" {
		fmt.Println(okStyle.Render(fmt.Sprintf("✓ Exported %d calls to %s", len(summaries), reportXLSX)))
	}
	return nil
}
