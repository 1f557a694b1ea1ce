package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment <conversation>",
	Short: "Score every sentence of a conversation",
	Long: `Score each user and AI sentence of a parsed conversation on a 0-10 scale.

The conversation may be given as a path or as a name inside the
conversations directory. Sentences the oracle leaves unscored get a local
lexical score; the repair flags say which fallbacks fired.

Examples:
  callinsight sentiment call_01
  callinsight sentiment convoJson/call_01.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSentiment,
}

func init() {
	rootCmd.AddCommand(sentimentCmd)
}

func runSentiment(cmd *cobra.Command, args []string) error {
	proc, err := newProcessor()
	if err != nil {
		return err
	}
	res, err := proc.SentimentFlow(cmd.Context(), proc.ResolveConversation(args[0]))
	if jsonOutput {
		if perr := printJSON(res); perr != nil {
			return perr
		}
		return err
	}
	if err != nil {
		return err
	}

	s := res.Series
	fmt.Println(titleStyle.Render(res.File))
	printField("cache key", res.Key)
	printField("cached", res.Cached)
	fmt.Println()

	cols := []column{{"#", 5}, {"USER", 8}, {"", 12}, {"AI", 8}, {"", 12}}
	rows := make([][]string, len(s.User))
	for i := range s.User {
		u, a := s.User[i].Score, s.AI[i].Score
		rows[i] = []string{fmt.Sprint(i + 1), fmt.Sprintf("%.2f", u), scoreBar(u), fmt.Sprintf("%.2f", a), scoreBar(a)}
	}
	printTable(cols, rows)

	var flags []string
	for k, v := range s.Meta {
		if v {
			flags = append(flags, k)
		}
	}
	sort.Strings(flags)
	if len(flags) > 0 {
		fmt.Println()
		printField("repairs", flags)
	}
	return nil
}
