package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headerColor = lipgloss.Color("#F780FF")
	accentColor = lipgloss.Color("#BD93F9")
	valueColor  = lipgloss.Color("#E9E9F4")
	borderColor = lipgloss.Color("#6272A4")
	okColor     = lipgloss.Color("#50FA7B")
	warnColor   = lipgloss.Color("#FFB86C")
	errColor    = lipgloss.Color("#FF5555")

	titleStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(accentColor)
	valueStyle  = lipgloss.NewStyle().Foreground(valueColor)
	borderStyle = lipgloss.NewStyle().Foreground(borderColor)
	okStyle     = lipgloss.NewStyle().Foreground(okColor)
	warnStyle   = lipgloss.NewStyle().Foreground(warnColor)
	errStyle    = lipgloss.NewStyle().Foreground(errColor)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

type column struct {
	title string
	width int
}

// printTable renders rows under a header with box-drawing separators.
func printTable(cols []column, rows [][]string) {
	head := lipgloss.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(valueColor).Padding(0, 1)

	parts := make([]string, len(cols))
	seps := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = head.Width(c.width).Render(c.title)
		seps[i] = strings.Repeat("─", c.width)
	}
	fmt.Println(strings.Join(parts, borderStyle.Render("│")))
	fmt.Println(borderStyle.Render(strings.Join(seps, "┼")))

	for _, r := range rows {
		for i, c := range cols {
			v := ""
			if i < len(r) {
				v = truncate(r[i], c.width-2)
			}
			parts[i] = cell.Width(c.width).Render(v)
		}
		fmt.Println(strings.Join(parts, borderStyle.Render("│")))
	}
}

func printField(label string, value any) {
	fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-28s", label+":")), valueStyle.Render(fmt.Sprint(value)))
}

// truncate bounds s to n display cells. Styled strings that already fit
// are returned untouched.
func truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	return runewidth.Truncate(s, n, "…")
}

func optFloat(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

// scoreBar draws a 0-10 score as a fixed-width bar.
func scoreBar(score float64) string {
	filled := min(max(int(score+0.5), 0), 10)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	switch {
	case score < 4:
		return errStyle.Render(bar)
	case score > 6:
		return okStyle.Render(bar)
	default:
		return warnStyle.Render(bar)
	}
}
