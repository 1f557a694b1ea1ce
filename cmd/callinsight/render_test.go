package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "abcde", 5, "abcde"},
		{"ascii", "abcdefghij", 5, "abcd…"},
		{"no limit", "abcdefghij", 0, "abcdefghij"},
		{"wide runes", "你好世界", 5, "你好…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestTruncate_WideTextLongerThanRuneCount(t *testing.T) {
	in := strings.Repeat("你", 60)
	got := truncate(in, 100)
	if w := runewidth.StringWidth(got); w > 100 {
		t.Errorf("width %d exceeds limit", w)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis, got %q", got)
	}

	emoji := strings.Repeat("🙂", 30)
	if w := runewidth.StringWidth(truncate(emoji, 21)); w > 21 {
		t.Errorf("emoji width %d exceeds limit", w)
	}
}

func TestTruncate_KeepsStyledBarThatFits(t *testing.T) {
	bar := scoreBar(7)
	if got := truncate(bar, 10); got != bar {
		t.Errorf("styled bar was altered: %q", got)
	}
}

func TestOptFloat(t *testing.T) {
	v := 3.14159
	if got := optFloat(nil); got != "-" {
		t.Errorf("optFloat(nil) = %q", got)
	}
	if got := optFloat(&v); got != "3.14" {
		t.Errorf("optFloat = %q, want 3.14", got)
	}
}

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score  float64
		filled int
	}{
		{0, 0},
		{4.4, 4},
		{6.5, 7},
		{10, 10},
		{-2, 0},
		{12, 10},
	}
	for _, tt := range tests {
		bar := scoreBar(tt.score)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("scoreBar(%v) filled = %d, want %d", tt.score, got, tt.filled)
		}
		if w := lipgloss.Width(bar); w != 10 {
			t.Errorf("scoreBar(%v) width = %d, want 10", tt.score, w)
		}
	}
}

func TestSizeLabel(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{-1, "0 B"},
	}
	for _, tt := range tests {
		if got := sizeLabel(tt.in); got != tt.want {
			t.Errorf("sizeLabel(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
