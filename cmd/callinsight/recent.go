package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently parsed conversations",
	RunE:  runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "Number of conversations to show")
}

func runRecent(cmd *cobra.Command, args []string) error {
	proc, err := newProcessor()
	if err != nil {
		return err
	}
	convs, err := proc.Recent(recentLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(convs)
	}
	if len(convs) == 0 {
		fmt.Println("No conversations found")
		return nil
	}
	for _, c := range convs {
		s := c.Summary
		fmt.Println(titleStyle.Render(s.Filename))
		if s.Overview != "" {
			fmt.Println(valueStyle.Render(s.Overview))
		}
		for _, seg := range c.Conversation {
			fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-5s", seg.Speaker)), truncate(seg.Text, 100))
		}
		fmt.Println()
	}
	return nil
}
