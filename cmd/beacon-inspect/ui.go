package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	faintColor   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	edgeStyle = lipgloss.NewStyle().
			Foreground(faintColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(faintColor).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// render re-colors a DebugTree/Summary dump: the first "->" arrow on each
// line gets the faint edge color, everything else (tree-drawing glyphs
// included) stays default, then the whole thing is boxed.
func render(dump string) string {
	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	for i, line := range lines {
		lines[i] = colorLine(line)
	}
	return boxStyle.Render(titleStyle.Render("dependency graph") + "\n\n" + strings.Join(lines, "\n"))
}

func colorLine(line string) string {
	if idx := strings.Index(line, "->"); idx >= 0 {
		return line[:idx] + edgeStyle.Render("->") + line[idx+2:]
	}
	return line
}
