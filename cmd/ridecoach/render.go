package main

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

//nolint:gochecknoglobals // shared table styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	restStyle   = cellStyle.Foreground(lipgloss.Color("#888888"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
)

// renderTable writes a bordered table. Rows for which dim reports true are greyed out.
func renderTable(w io.Writer, headers []string, rows [][]string, dim func(row int) bool) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case dim != nil && dim(row):
				return restStyle
			default:
				return cellStyle
			}
		})
	_, _ = fmt.Fprintln(w, t.Render())
}

// formatOptional formats v with one decimal, or "" when unknown.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.1f", v)
}
