package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD"))
	goldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7CFC00"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7B2CBF")).
			Padding(0, 2)
)

// renderBar draws a bracketed bar of width cells, frac filled.
func renderBar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color("#C8B6FF"))
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	return "[" + fill.Render(strings.Repeat("█", filled)) + empty.Render(strings.Repeat("░", width-filled)) + "]"
}

// renderGuard is shown by pages that need a signed-in user.
func renderGuard(page string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(page))
	b.WriteString("\n\n")
	b.WriteString(goldStyle.Render("Cette page est réservée aux membres connectés."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Appuyez sur [0] pour vous connecter ou créer un compte."))
	return b.String()
}

// rgb formats a truecolor hex string.
func rgb(r, g, b int) string {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}
