package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const paletteMaxItems = 8

// paletteHeight is the number of lines renderPalette produces for n matches.
func paletteHeight(n int) int {
	if n > paletteMaxItems {
		n = paletteMaxItems
	}
	if n == 0 {
		n = 1
	}
	return n + 3 // borders and hint
}

// renderPalette draws the slash command list under the prompt.
func renderPalette(width int, cmds []SlashCmd, sel int) string {
	inner := width - 2
	if inner < 20 {
		inner = 20
	}
	border := lipgloss.NewStyle().Foreground(Vitesse.Border)
	hl := lipgloss.NewStyle().Bold(true).Foreground(Vitesse.Primary)
	dim := mutedStyle()

	// keep the selection visible
	start := 0
	if sel >= paletteMaxItems {
		start = sel - paletteMaxItems + 1
	}
	end := min(len(cmds), start+paletteMaxItems)

	var lines []string
	if len(cmds) == 0 {
		lines = append(lines, dim.Render("  no matching command"))
	}
	for i := start; i < end; i++ {
		c := cmds[i]
		name := c.Name
		if c.Args != "" {
			name += " " + c.Args
		}
		line := fmt.Sprintf("  %-18s %s", name, dim.Render(c.Desc))
		if i == sel {
			line = hl.Render(fmt.Sprintf("› %-18s", name)) + " " + c.Desc
		}
		lines = append(lines, xansi.Truncate(line, inner, "…"))
	}

	var b strings.Builder
	b.WriteString(border.Render("╭"+strings.Repeat("─", inner)+"╮") + "\n")
	for _, ln := range lines {
		pad := inner - xansi.StringWidth(ln)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(border.Render("│") + ln + strings.Repeat(" ", pad) + border.Render("│") + "\n")
	}
	b.WriteString(border.Render("╰"+strings.Repeat("─", inner)+"╯") + "\n")
	b.WriteString(dim.Render("  ↑/↓ select · tab complete · enter run · esc close"))
	return b.String()
}
