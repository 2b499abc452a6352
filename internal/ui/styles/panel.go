package styles

import "github.com/charmbracelet/lipgloss"

// BoxStyle returns the rounded box drawn around the player bar and the
// input prompts. Active boxes use the focus color.
func BoxStyle(active bool) lipgloss.Style {
	t := T()
	color := t.Border
	if active {
		color = t.BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
}
