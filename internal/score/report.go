package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A78BFA"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9CA3AF"))

	winnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))
)

// RenderReport produces the final comparison table for the terminal.
func RenderReport(totals []MethodTotals, positions int, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Chess Method Comparison"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d positions evaluated in %s",
		positions, elapsed.Round(time.Second))))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %9s %10s %7s %9s %11s %9s %7s %7s",
		"Method", "Points", "Attempted", "Score", "Illegal", "ProposerErr", "Malformed", "NonTerm", "EvalErr")))
	b.WriteString("\n")

	bestPoints := 0.0
	for _, t := range totals {
		if t.Points > bestPoints {
			bestPoints = t.Points
		}
	}

	for _, t := range totals {
		row := fmt.Sprintf("%-10s %9.2f %10d %7s %9d %11d %9d %7d %7d",
			t.Name, t.Points, t.Attempted, FormatPercentage(t),
			t.Illegal, t.ProposerFailures, t.Malformed, t.NonTerminations, t.EvalFailures)
		if bestPoints > 0 && t.Points == bestPoints {
			row = winnerStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}
