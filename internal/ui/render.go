package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps plain text to width display cells. Words wider than
// the line are broken at rune boundaries; existing newlines are kept.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		line, lw := "", 0
		flush := func() {
			out = append(out, line)
			line, lw = "", 0
		}
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		for _, w := range words {
			ww := runewidth.StringWidth(w)
			if lw > 0 && lw+1+ww > width {
				flush()
			}
			for ww > width {
				// hard break an overlong word; lw is 0 here
				head := runewidth.Truncate(w, width, "")
				if head == "" {
					head = string([]rune(w)[:1])
				}
				out = append(out, head)
				w = w[len(head):]
				ww = runewidth.StringWidth(w)
			}
			if lw > 0 {
				line += " "
				lw++
			}
			line += w
			lw += ww
		}
		flush()
	}
	return strings.Join(out, "\n")
}

// trimEdgeBlankLines drops leading and trailing blank lines, which glamour
// adds around every document.
func trimEdgeBlankLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	i, j := 0, len(lines)-1
	for i <= j && strings.TrimSpace(xansi.Strip(lines[i])) == "" {
		i++
	}
	for j >= i && strings.TrimSpace(xansi.Strip(lines[j])) == "" {
		j--
	}
	return strings.Join(lines[i:j+1], "\n")
}

// renderStatusBar lays chips out left and right on a single line of the
// given width, truncating the left side first.
func renderStatusBar(width int, left, right []string) string {
	if width <= 0 {
		width = 100
	}
	base := StatusBarBase()
	l := strings.Join(left, base.Render(" "))
	r := strings.Join(right, base.Render(" "))
	rw := xansi.StringWidth(r)
	if xansi.StringWidth(l)+rw+1 > width {
		l = xansi.Truncate(l, max(0, width-rw-1), "…")
	}
	gap := width - xansi.StringWidth(l) - rw
	if gap < 0 {
		gap = 0
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, l, base.Render(strings.Repeat(" ", gap)), r)
}

// lastLines keeps at most n trailing lines of s.
func lastLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
