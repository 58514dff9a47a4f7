package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPadString(t *testing.T) {
	tests := []struct {
		in    string
		width int
		align string
		want  string
	}{
		{"ab", 4, "left", "ab  "},
		{"ab", 4, "right", "  ab"},
		{"ab", 5, "center", " ab  "},
		{"abcdef", 3, "left", "abcdef"},
		{"TPU®", 6, "left", "TPU®  "},
	}

	for _, tt := range tests {
		if got := padString(tt.in, tt.width, tt.align); got != tt.want {
			t.Errorf("padString(%q, %d, %s) = %q, want %q", tt.in, tt.width, tt.align, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Quantum Carbon", 0, "Quantum Carbon"},
		{"Quantum Carbon", 20, "Quantum Carbon"},
		{"Quantum Carbon", 8, "Quantum…"},
		{"Ultrasint® TPU 64D", 11, "Ultrasint®…"},
		{"abc", 1, "…"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTable_RenderAlignsUnicode(t *testing.T) {
	SetTheme("none")
	defer SetTheme("auto")

	table := NewTable([]TableColumn{
		{Header: "PRODUCT"},
		{Header: "VALID UNTIL"},
	})
	table.AddRow([]string{"Ultrasint® TPU 64D", "2027-01-15"})
	table.AddRow([]string{"Quantum Carbon", "2025-12-31"})
	table.AddRow([]string{"short"})

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}

	lines := strings.Split(strings.TrimRight(table.Render(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("rendered %d lines, want 5:\n%s", len(lines), strings.Join(lines, "\n"))
	}

	col := strings.Index(lines[0], "VALID UNTIL")
	headerOffset := lipgloss.Width(lines[0][:col])
	for _, line := range lines[2:4] {
		idx := strings.Index(line, "20")
		if got := lipgloss.Width(line[:idx]); got != headerOffset {
			t.Errorf("date column at %d, header at %d in %q", got, headerOffset, line)
		}
	}
}

func TestTable_EmptyColumns(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render() with no columns = %q", got)
	}
}

func TestFormatBadges(t *testing.T) {
	SetTheme("none")
	defer SetTheme("auto")

	out := FormatBadges("Orange", "", "ISO 9001")
	if !strings.Contains(out, "Orange") || !strings.Contains(out, "ISO 9001") {
		t.Errorf("FormatBadges = %q", out)
	}
	if FormatBadges() != "" {
		t.Error("FormatBadges() with no labels should be empty")
	}
}
