package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <conversation>",
	Short: "Extract concerns, action items and emotions from a conversation",
	Long: `Extract concern, action_item and emotion spans from a parsed conversation
and render them as an HTML highlight view stored with the cached result.

Examples:
  callinsight analyze call_01
  callinsight analyze convoJson/call_01.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	proc, err := newProcessor()
	if err != nil {
		return err
	}
	out, err := proc.Analyze(cmd.Context(), proc.ResolveConversation(args[0]))
	if jsonOutput {
		if perr := printJSON(out); perr != nil {
			return perr
		}
		return err
	}
	if err != nil {
		return err
	}

	a := out.Analysis
	fmt.Println(titleStyle.Render(out.File))
	printField("cache key", out.Key)
	printField("cached", out.Cached)
	printField("messages (user/ai)", fmt.Sprintf("%d (%d/%d)",
		a.ConversationSummary.TotalMessages, a.ConversationSummary.UserMessages, a.ConversationSummary.AIMessages))
	printField("extracted entities", a.ConversationSummary.ExtractedEntities)
	if out.VisualizationPath != "" {
		printField("visualization", out.VisualizationPath)
	}
	if len(a.Extractions) == 0 {
		return nil
	}
	fmt.Println()

	rows := make([][]string, len(a.Extractions))
	for i, e := range a.Extractions {
		attrs := ""
		for k, v := range e.Attributes {
			if attrs != "" {
				attrs += ", "
			}
			attrs += fmt.Sprintf("%s=%v", k, v)
		}
		rows[i] = []string{e.Class, e.Text, attrs}
	}
	printTable([]column{{"CLASS", 13}, {"TEXT", 44}, {"ATTRIBUTES", 36}}, rows)
	return nil
}
