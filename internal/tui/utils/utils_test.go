package utils

import (
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/taskboard/internal/api"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello w…"},
		{"one cell", "hello", 1, "…"},
		{"zero", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.in, tt.width); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateString_WideRunes(t *testing.T) {
	got := TruncateString("日本語のタスク", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("expected at most 7 cells, got %d (%q)", w, got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("expected padding, got %q", got)
	}
	if got := PadRight("abcdefgh", 5); runewidth.StringWidth(got) != 5 {
		t.Errorf("expected exactly 5 cells, got %q", got)
	}
}

func TestExtractLabels(t *testing.T) {
	tasks := []api.Task{
		{Labels: []string{"ops", "bug"}},
		{Labels: []string{"bug"}},
		{},
	}
	got := ExtractLabels(tasks)
	if len(got) != 2 || got[0] != "bug" || got[1] != "ops" {
		t.Errorf("unexpected labels %v", got)
	}
}
