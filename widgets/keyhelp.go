package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyColumns lays sections out side by side
func RenderKeyColumns(sections []KeySection) string {
	cols := make([]string, 0, len(sections))
	for i, sec := range sections {
		col := RenderKeyHelp([]KeySection{sec})
		if i < len(sections)-1 {
			col = lipgloss.NewStyle().PaddingRight(4).Render(col)
		}
		cols = append(cols, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderLegendItem renders a single legend item: "● Name - description"
func RenderLegendItem(symbol rune, color lipgloss.Color, name, desc string) string {
	style := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("  %s %s - %s", style.Render(string(symbol)), name, desc)
}
