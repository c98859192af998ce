package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	gansi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"

	"porridge/internal/models"
)

// Palette is based on Vitesse Dark Soft:
// https://github.com/antfu/vscode-theme-vitesse/blob/main/themes/vitesse-dark-soft.json
type palette struct {
	Primary lipgloss.Color
	Blue    lipgloss.Color
	Yellow  lipgloss.Color
	Magenta lipgloss.Color
	Red     lipgloss.Color

	Text      lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color

	Bg       lipgloss.Color
	BgSoft   lipgloss.Color
	Border   lipgloss.Color
	OnAccent lipgloss.Color

	BarFG lipgloss.AdaptiveColor
	BarBG lipgloss.AdaptiveColor
}

var Vitesse = palette{
	Primary: lipgloss.Color("#4d9375"),
	Blue:    lipgloss.Color("#6394bf"),
	Yellow:  lipgloss.Color("#e6cc77"),
	Magenta: lipgloss.Color("#d9739f"),
	Red:     lipgloss.Color("#cb7676"),

	Text:      lipgloss.Color("#dbd7caee"),
	Secondary: lipgloss.Color("#bfbaaa"),
	Muted:     lipgloss.Color("#dedcd590"),

	Bg:       lipgloss.Color("#181818"),
	BgSoft:   lipgloss.Color("#292929"),
	Border:   lipgloss.Color("#3a3a3a"),
	OnAccent: lipgloss.Color("#222"),

	BarFG: lipgloss.AdaptiveColor{Light: "#343433", Dark: "#bfbaaa"},
	BarBG: lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#222"},
}

// authorStyle colours the header line above each transcript message.
func authorStyle(m models.Message) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch {
	case m.Type == models.MessageError:
		return s.Foreground(Vitesse.Red)
	case m.IsUser():
		return s.Foreground(Vitesse.Blue)
	case m.Author == models.AuthorPorridge:
		return s.Foreground(Vitesse.Yellow)
	}
	return s.Foreground(Vitesse.Primary)
}

func mutedStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(Vitesse.Muted) }

func errorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(Vitesse.Red) }

// inputBoxStyle frames the prompt textarea.
func inputBoxStyle(focused bool) lipgloss.Style {
	c := Vitesse.Border
	if focused {
		c = Vitesse.Primary
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

// overlayStyle frames the waiting-for-editor notice.
func overlayStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Vitesse.Yellow).
		Padding(0, 2)
}

// ChipStyle renders a coloured status bar segment.
func ChipStyle(bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Vitesse.OnAccent).Background(bg).Padding(0, 1)
}

// StatusBarBase is the background of the status bar.
func StatusBarBase() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Vitesse.BarFG).Background(Vitesse.BarBG)
}

// Button renders a small accent button label.
func Button(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Bold(true).Foreground(Vitesse.OnAccent).Background(bg).Padding(0, 1).Render(s)
}

// markdownRenderer builds the glamour renderer for assistant replies. The
// dark theme uses the Vitesse palette; other themes use glamour's own.
func markdownRenderer(theme string, width int) (*glamour.TermRenderer, error) {
	// glamour pads each block by two columns
	wrap := width - 2
	if wrap < 10 {
		wrap = 10
	}
	style := glamour.WithStyles(vitesseGlamour())
	if theme != "" && theme != "dark" {
		style = glamour.WithStandardStyle(theme)
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
}

func vitesseGlamour() gansi.StyleConfig {
	// glamour wants #RRGGBB, the palette carries alpha on some entries
	hex := func(c lipgloss.Color) *string {
		s := string(c)
		if strings.HasPrefix(s, "#") && len(s) == 9 {
			s = s[:7]
		}
		return &s
	}
	bp := func(b bool) *bool { return &b }
	margin := uint(0)

	return gansi.StyleConfig{
		Document: gansi.StyleBlock{
			StylePrimitive: gansi.StylePrimitive{Color: hex(Vitesse.Text)},
			Margin:         &margin,
		},
		Paragraph:  gansi.StyleBlock{StylePrimitive: gansi.StylePrimitive{Color: hex(Vitesse.Text)}},
		BlockQuote: gansi.StyleBlock{StylePrimitive: gansi.StylePrimitive{Color: hex(Vitesse.Secondary), Italic: bp(true)}},
		Heading:    gansi.StyleBlock{StylePrimitive: gansi.StylePrimitive{Color: hex(Vitesse.Blue), Bold: bp(true)}},
		H1:         gansi.StyleBlock{StylePrimitive: gansi.StylePrimitive{Prefix: "# ", Color: hex(Vitesse.Blue), Bold: bp(true)}},
		H2:         gansi.StyleBlock{StylePrimitive: gansi.StylePrimitive{Prefix: "## ", Color: hex(Vitesse.Blue), Bold: bp(true)}},
		H3:         gansi.StyleBlock{StylePrimitive: gansi.StylePrimitive{Prefix: "### ", Color: hex(Vitesse.Blue), Bold: bp(true)}},

		Emph:           gansi.StylePrimitive{Italic: bp(true)},
		Strong:         gansi.StylePrimitive{Bold: bp(true)},
		Strikethrough:  gansi.StylePrimitive{CrossedOut: bp(true)},
		HorizontalRule: gansi.StylePrimitive{Color: hex(Vitesse.Secondary), Format: "\n--------\n"},
		Link:           gansi.StylePrimitive{Color: hex(Vitesse.Blue), Underline: bp(true)},
		LinkText:       gansi.StylePrimitive{Color: hex(Vitesse.Blue)},
		Item:           gansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration:    gansi.StylePrimitive{BlockPrefix: ". "},

		Code: gansi.StyleBlock{
			StylePrimitive: gansi.StylePrimitive{Color: hex(Vitesse.Yellow), BackgroundColor: hex(Vitesse.BgSoft)},
		},
		CodeBlock: gansi.StyleCodeBlock{
			StyleBlock: gansi.StyleBlock{
				StylePrimitive: gansi.StylePrimitive{Color: hex(Vitesse.Text)},
				Margin:         &margin,
			},
			Chroma: &gansi.Chroma{
				Text:          gansi.StylePrimitive{Color: hex(Vitesse.Text)},
				Comment:       gansi.StylePrimitive{Color: hex(Vitesse.Muted), Italic: bp(true)},
				Keyword:       gansi.StylePrimitive{Color: hex(Vitesse.Primary), Bold: bp(true)},
				NameFunction:  gansi.StylePrimitive{Color: hex(Vitesse.Blue)},
				NameBuiltin:   gansi.StylePrimitive{Color: hex(Vitesse.Magenta)},
				LiteralString: gansi.StylePrimitive{Color: hex(Vitesse.Yellow)},
				LiteralNumber: gansi.StylePrimitive{Color: hex(Vitesse.Magenta)},
				Operator:      gansi.StylePrimitive{Color: hex(Vitesse.Secondary)},
				Punctuation:   gansi.StylePrimitive{Color: hex(Vitesse.Secondary)},
			},
		},
	}
}
