package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"porridge/internal/backend"
	"porridge/internal/editprompt"
	"porridge/internal/models"
	"porridge/internal/sessions"
	"porridge/internal/system"
)

const (
	zoneInput    = "chat.input"
	zoneContinue = "edit.continue"
	zoneCancel   = "edit.cancel"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.update(msg)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case busMsg:
		next, cmd := m.update(msg.msg)
		return next, tea.Batch(cmd, next.bus.Listen())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)

	case editprompt.Event:
		return m.handleEdit(msg)
	case editprompt.RenderNoticeMsg:
		// the overlay is painted by View; keep the spinner moving behind it
		return m, m.spinner.Tick
	case editprompt.NewPromptMsg:
		m.input.SetValue(msg.Text)
		m.input.CursorEnd()
		m.refreshSlash()
		m.layout()
		m.notice = "prompt updated from editor"
		return m, nil
	case editprompt.ErrorMsg:
		m.appendMessage(msg.Message)
		return m, nil

	case streamChunkMsg:
		return m.handleChunk(msg)
	case modelsMsg:
		if msg.err != nil {
			m.appendMessage(models.NewMessageWithType(models.AuthorPorridge, models.MessageError, "could not list models: "+msg.err.Error()))
			return m, nil
		}
		text := "Models:\n"
		for _, name := range msg.models {
			text += "  " + name + "\n"
		}
		m.appendMessage(models.NewMessage(models.AuthorPorridge, text+"\nUse /model <name> to switch."))
		return m, nil
	case sessionSavedMsg:
		if msg.err != nil {
			system.Logger.Error("could not save session", "id", m.session.ID, "err", msg.err)
			m.notice = "could not save session: " + msg.err.Error()
		}
		return m, nil
	case noticeMsg:
		m.notice = string(msg)
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		// git is polled every 10 seconds
		if m.lastGitCheck.IsZero() || m.now.Sub(m.lastGitCheck) >= 10*time.Second {
			m.lastGitCheck = m.now
			return m, tea.Batch(tickCmd(), gitInfoCmd(m.cwd))
		}
		return m, tickCmd()
	case gitInfoMsg:
		m.git = msg.info
		return m, nil
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// cursor blink and anything else the textarea understands
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}

	// While an edit session is active only confirm and cancel apply.
	if m.edit.IsActive() {
		state := m.edit.State()
		switch {
		case key.Matches(msg, m.keys.Send) && state == editprompt.StateWatchingFile:
			return m.handleEdit(editprompt.Finish{})
		case key.Matches(msg, m.keys.Cancel) && state != editprompt.StateEditorRunning:
			return m.handleEdit(editprompt.Cancel{})
		}
		return m, nil
	}

	if m.slashVisible {
		switch msg.String() {
		case "up":
			if n := len(m.slashFiltered); n > 0 {
				m.slashIndex = (m.slashIndex - 1 + n) % n
			}
			return m, nil
		case "down":
			if n := len(m.slashFiltered); n > 0 {
				m.slashIndex = (m.slashIndex + 1) % n
			}
			return m, nil
		case "tab":
			m.completeSlash()
			m.layout()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, m.keys.Send):
		return m.submit()
	case key.Matches(msg, m.keys.Cancel):
		switch {
		case m.streaming:
			m.stopStream()
			m.notice = "reply cancelled"
		case m.slashVisible:
			m.input.Reset()
			m.refreshSlash()
			m.layout()
		default:
			m.notice = ""
		}
		return m, nil
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSlash()
	m.layout()
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	state := m.edit.State()
	switch {
	case state == editprompt.StateWatchingFile && zone.Get(zoneContinue).InBounds(msg):
		return m.handleEdit(editprompt.Finish{})
	case m.edit.IsActive() && state != editprompt.StateEditorRunning && zone.Get(zoneCancel).InBounds(msg):
		return m.handleEdit(editprompt.Cancel{})
	case !m.edit.IsActive() && zone.Get(zoneInput).InBounds(msg):
		return m, m.input.Focus()
	}
	return m, nil
}

// handleEdit feeds an event to the edit prompt service. Failures have
// already been logged and reported through an ErrorMsg.
func (m Model) handleEdit(ev editprompt.Event) (Model, tea.Cmd) {
	cmd, err := m.edit.Handle(ev)
	if err != nil {
		system.Logger.Debug("edit prompt event rejected", "err", err)
	}
	if m.edit.IsActive() {
		m.input.Blur()
		return m, cmd
	}
	return m, tea.Batch(cmd, m.input.Focus())
}

func (m Model) beginEdit() (Model, tea.Cmd) {
	m.slashVisible = false
	m.notice = ""
	m.layout()
	return m.handleEdit(editprompt.Begin{
		Sender:   m.bus,
		Prompt:   m.input.Value(),
		Messages: append([]models.Message(nil), m.session.Messages...),
	})
}

// submit runs the selected palette entry, a typed slash command or sends
// the prompt to the backend.
func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()
	if m.slashVisible && len(m.slashFiltered) > 0 {
		sel := m.slashFiltered[m.slashIndex]
		if len(sel.Args) > 0 && sel.Args[0] == '<' {
			// required argument, let the user type it
			m.completeSlash()
			m.layout()
			return m, nil
		}
		text = sel.Name
	}
	if isBlank(text) {
		return m, nil
	}
	if sc, ok := models.ParseSlashCommand(text); ok {
		m.input.Reset()
		m.refreshSlash()
		m.layout()
		return m.execSlash(sc)
	}
	if m.streaming {
		return m, noticeCmd("a reply is still streaming, press esc to stop it")
	}
	m.input.Reset()
	m.refreshSlash()
	m.layout()
	return m.sendPrompt(text)
}

func (m Model) sendPrompt(text string) (Model, tea.Cmd) {
	history := append([]models.Message(nil), m.session.Messages...)
	m.appendMessage(models.NewMessage(models.AuthorUser, text))
	if m.backend == nil {
		m.appendMessage(models.NewMessageWithType(models.AuthorPorridge, models.MessageError, "no backend configured"))
		return m, m.saveSession()
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.backend.Send(ctx, backend.Request{Model: m.modelName(), Prompt: text, History: history})
	if err != nil {
		cancel()
		system.Logger.Error("backend request failed", "backend", m.backend.Name(), "err", err)
		m.appendMessage(models.NewMessageWithType(models.AuthorPorridge, models.MessageError, err.Error()))
		return m, m.saveSession()
	}

	m.streamID++
	m.streaming = true
	m.cancelStream = cancel
	m.appendMessage(models.NewMessage(models.ModelAuthor(m.modelName()), ""))
	m.replyIndex = len(m.session.Messages) - 1

	id, bus := m.streamID, m.bus
	go func() {
		for r := range ch {
			bus.Send(streamChunkMsg{id: id, resp: r})
		}
	}()
	return m, m.spinner.Tick
}

func (m Model) handleChunk(msg streamChunkMsg) (Model, tea.Cmd) {
	if !m.streaming || msg.id != m.streamID {
		return m, nil
	}
	r := msg.resp
	if r.Text != "" {
		m.session.Messages[m.replyIndex].AppendText(r.Text)
		m.refreshTranscript()
	}
	if r.Err == nil && !r.Done {
		return m, nil
	}
	m.stopStream()
	if r.Err != nil && !errors.Is(r.Err, context.Canceled) {
		system.Logger.Error("backend stream failed", "err", r.Err)
		m.appendMessage(models.NewMessageWithType(models.AuthorPorridge, models.MessageError, r.Err.Error()))
	}
	return m, m.saveSession()
}

func (m *Model) stopStream() {
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.streaming = false
}

func (m Model) quit() (Model, tea.Cmd) {
	m.stopStream()
	m.edit.Close()
	m.quitting = true
	return m, tea.Sequence(m.saveSession(), tea.Quit)
}

// appendMessage adds msg to the transcript and scrolls to it.
func (m *Model) appendMessage(msg models.Message) {
	m.session.Messages = append(m.session.Messages, msg)
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// saveSession writes a snapshot of the conversation in the background.
func (m Model) saveSession() tea.Cmd {
	if !m.persist || len(m.session.Messages) == 0 {
		return nil
	}
	snap := *m.session
	snap.Messages = append([]models.Message(nil), m.session.Messages...)
	return func() tea.Msg {
		return sessionSavedMsg{err: sessions.Save(&snap)}
	}
}

// periodic tick command
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func gitInfoCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return gitInfoMsg{info: system.GetGitInfo(ctx, dir)}
	}
}
