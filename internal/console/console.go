// Package console renders a contribution-grid preview and run statistics
// for the terminal.
package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
	"github.com/vovakirdan/starshot/internal/storage"
)

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// levelStyles styles one block per contribution level, darkest to
// brightest, mirroring the graph palette.
func levelStyles(theme config.ThemeConfig) []lipgloss.Style {
	styles := make([]lipgloss.Style, 0, len(theme.EnemyLevels)+1)
	styles = append(styles, lipgloss.NewStyle().Foreground(lipgloss.Color("238")))
	for _, c := range theme.EnemyLevels {
		styles = append(styles, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())))
	}
	return styles
}

// GridPreview renders the contribution grid as colored blocks, one column
// per week. Weeks beyond the terminal width are dropped from the left so
// the most recent activity stays visible.
func GridPreview(grid contrib.Grid, theme config.ThemeConfig) string {
	levels := grid.Levels()
	if len(levels) == 0 {
		return ""
	}
	styles := levelStyles(theme)

	weeks := len(levels)
	if width := terminalWidth(); width > 0 && weeks*2 > width {
		levels = levels[weeks-width/2:]
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(grid.Username) + "\n")
	days := len(levels[0])
	for day := 0; day < days; day++ {
		for _, week := range levels {
			level := 0
			if day < len(week) {
				level = week[day]
			}
			if level >= len(styles) {
				level = len(styles) - 1
			}
			b.WriteString(styles[level].Render("■") + " ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RunSummary formats the statistics of a finished render.
func RunSummary(policyName, format string, frames, score, bytes int, seed uint64) string {
	rows := []struct{ label, value string }{
		{"policy", policyName},
		{"format", format},
		{"frames", fmt.Sprintf("%d", frames)},
		{"score", fmt.Sprintf("%d", score)},
		{"size", fmt.Sprintf("%d bytes", bytes)},
		{"seed", fmt.Sprintf("%d", seed)},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%8s  ", row.label)))
		b.WriteString(valueStyle.Render(row.value) + "\n")
	}
	return b.String()
}

// HistoryTable formats render history records, newest first.
func HistoryTable(records []storage.RenderRecord) string {
	if len(records) == 0 {
		return labelStyle.Render("no renders recorded") + "\n"
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s %-8s %-6s %7s %7s  %s", "user", "policy", "format", "frames", "score", "when")) + "\n")
	for _, rec := range records {
		b.WriteString(fmt.Sprintf("%-12s %-8s %-6s %7d %7d  %s\n",
			rec.Username, rec.Policy, rec.Format, rec.Frames, rec.Score,
			rec.CreatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}
