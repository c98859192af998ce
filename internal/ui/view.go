package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"porridge/internal/editprompt"
	"porridge/internal/models"
)

// inputHeight is the prompt textarea plus its border; the waiting overlay
// takes the same space.
const inputHeight = 5

// WaitingNotice is shown while an edit session is active.
const WaitingNotice = "Waiting for editor, press Enter to continue."

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.edit.IsActive() {
		b.WriteString(m.renderWaiting())
	} else {
		box := inputBoxStyle(m.input.Focused()).Width(max(10, m.width-2)).Render(m.input.View())
		b.WriteString(zone.Mark(zoneInput, box))
	}
	b.WriteString("\n")
	if m.slashVisible && !m.edit.IsActive() {
		b.WriteString(renderPalette(m.width, m.slashFiltered, m.slashIndex))
	} else {
		keys := m.keys.ShortHelp()
		if m.edit.IsActive() {
			keys = m.keys.editingKeys()
		}
		b.WriteString(m.help.ShortHelpView(keys))
		b.WriteString("\n")
		b.WriteString(m.renderStatusBarLine())
	}
	return zone.Scan(b.String())
}

// layout sizes the viewport and textarea for the current window.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.input.SetWidth(max(10, m.width-4))
	m.help.Width = m.width
	footer := 2
	if m.slashVisible && !m.edit.IsActive() {
		footer = paletteHeight(len(m.slashFiltered))
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-inputHeight-footer)
}

// renderWaiting is the overlay that replaces the prompt during an edit
// session. Continue only applies once the editor has returned.
func (m Model) renderWaiting() string {
	state := m.edit.State()
	notice := WaitingNotice
	if state == editprompt.StateEditorRunning {
		notice = fmt.Sprintf("Editing in %s…", m.cfg.Editor)
	}
	line := m.spinner.View() + " " + notice

	cont := Button("Continue", Vitesse.Primary)
	if state != editprompt.StateWatchingFile {
		cont = Button("Continue", Vitesse.Border)
	}
	buttons := zone.Mark(zoneContinue, cont) + "  " + zone.Mark(zoneCancel, Button("Cancel", Vitesse.Red))

	body := lipgloss.JoinVertical(lipgloss.Left, line, "", buttons)
	return overlayStyle().Width(max(10, m.width-2)).Render(body)
}

func (m Model) renderStatusBarLine() string {
	left := []string{ChipStyle(Vitesse.Primary).Render("porridge")}
	if m.backend != nil {
		name := m.backend.Name()
		if model := m.modelName(); model != "" {
			name += "/" + model
		}
		left = append(left, ChipStyle(Vitesse.Blue).Render(IconBackend()+name))
	}
	switch {
	case m.streaming:
		left = append(left, StatusBarBase().Render(m.spinner.View()+" replying… esc to stop"))
	case m.notice != "":
		left = append(left, StatusBarBase().Render(m.notice))
	}

	right := []string{ChipStyle(Vitesse.Yellow).Render(IconEditor() + m.cfg.Editor)}
	if g := m.git.Label(); g != "" {
		right = append(right, ChipStyle(Vitesse.Magenta).Render(IconBranch()+g))
	}
	if !m.now.IsZero() {
		right = append(right, StatusBarBase().Render(m.now.Format("15:04")))
	}
	return renderStatusBar(m.width, left, right)
}

// refreshTranscript re-renders all messages into the viewport, following
// the tail when the view was already at the bottom.
func (m *Model) refreshTranscript() {
	follow := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderTranscript(width int) string {
	if width <= 0 {
		width = 80
	}
	if len(m.session.Messages) == 0 {
		return mutedStyle().Render(wrapText(fmt.Sprintf(
			"Type a prompt and press enter. /help lists commands. Press ctrl+o to write the prompt in %s.",
			m.cfg.Editor), width))
	}
	body := lipgloss.NewStyle().PaddingLeft(2)
	parts := make([]string, 0, len(m.session.Messages))
	for i, msg := range m.session.Messages {
		header := authorStyle(msg).Render(string(msg.Author))
		if !msg.CreatedAt.IsZero() {
			header += " " + mutedStyle().Render(msg.CreatedAt.Format("15:04"))
		}
		var text string
		switch {
		case msg.Type == models.MessageError:
			text = errorStyle().Render(wrapText(msg.Text, width-2))
		case m.streaming && i == m.replyIndex && msg.Text == "":
			text = m.spinner.View()
		case msg.IsUser() || msg.Author == models.AuthorPorridge:
			text = wrapText(msg.Text, width-2)
		default:
			text = m.renderMarkdown(msg.Text, width-2)
		}
		parts = append(parts, header+"\n"+body.Render(text))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMarkdown(text string, width int) string {
	if m.md == nil || m.mdWidth != width {
		r, err := markdownRenderer(m.cfg.Theme, width)
		if err != nil {
			return wrapText(text, width)
		}
		m.md, m.mdWidth = r, width
	}
	out, err := m.md.Render(text)
	if err != nil {
		return wrapText(text, width)
	}
	return trimEdgeBlankLines(out)
}
