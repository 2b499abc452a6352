package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

const (
	meterFull  = "▮"
	meterEmpty = "▯"
)

// Logo renders text in bold, blending from the primary to the secondary
// color one grapheme at a time.
func Logo(text string) string {
	t := T()
	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}

	colors := ramp(len(clusters), t.Primary, t.Secondary)
	var b strings.Builder
	for i, c := range clusters {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colors[i]).Render(c))
	}
	return b.String()
}

// Meter renders level (0..1) as a width-cell bar. Filled cells follow the
// theme gradient so loud levels shift toward the secondary color.
func Meter(level float64, width int) string {
	if width <= 0 {
		return ""
	}
	level = min(max(level, 0), 1)
	filled := int(level*float64(width) + 0.5)

	t := T()
	colors := ramp(width, t.Primary, t.Secondary)
	empty := lipgloss.NewStyle().Foreground(t.FgSubtle)

	var b strings.Builder
	for i := range width {
		if i < filled {
			b.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Render(meterFull))
		} else {
			b.WriteString(empty.Render(meterEmpty))
		}
	}
	return b.String()
}

// ramp returns n colors blended in HCL space from one color to another.
// Colors that are not #rrggbb hex are used unblended.
func ramp(n int, from, to lipgloss.Color) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	out := make([]lipgloss.Color, n)
	c1, err1 := colorful.Hex(string(from))
	c2, err2 := colorful.Hex(string(to))
	if err1 != nil || err2 != nil || n == 1 {
		for i := range out {
			out[i] = from
		}
		return out
	}
	for i := range n {
		out[i] = lipgloss.Color(c1.BlendHcl(c2, float64(i)/float64(n-1)).Clamped().Hex())
	}
	return out
}
