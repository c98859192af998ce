// Package ui is the porridge chat screen.
package ui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"porridge/internal/backend"
	"porridge/internal/config"
	"porridge/internal/editprompt"
	"porridge/internal/models"
	"porridge/internal/sessions"
	"porridge/internal/system"
)

// Options wires the chat screen to the rest of the application.
type Options struct {
	Config   *config.Config
	Backends *backend.Registry
	// Session to resume; nil starts a new one.
	Session *sessions.Session
	// Persist saves the session after every exchange.
	Persist bool
	Bus     *Bus
	// Editors and TempDir are passed to the edit prompt service.
	Editors *editprompt.Registry
	TempDir string
	Cwd     string
}

// Model is the chat screen state.
type Model struct {
	cfg      *config.Config
	backend  backend.Backend
	session  *sessions.Session
	persist  bool
	bus      *Bus
	edit     *editprompt.Service
	keys     keyMap
	cwd      string
	quitting bool

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	width    int
	height   int

	// markdown renderer, rebuilt when the width changes
	md      *glamour.TermRenderer
	mdWidth int

	// reply streaming
	streaming    bool
	streamID     int
	replyIndex   int
	cancelStream context.CancelFunc

	// slash palette
	slashVisible  bool
	slashFiltered []SlashCmd
	slashIndex    int

	// status bar
	notice       string
	now          time.Time
	git          system.GitInfo
	lastGitCheck time.Time
}

func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		c := config.Default()
		c.Editor = config.DefaultEditor
		cfg = &c
	}
	bus := opts.Bus
	if bus == nil {
		bus = NewBus()
	}
	backends := opts.Backends
	if backends == nil {
		backends = backend.Default()
	}
	cwd := opts.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	m := Model{
		cfg:     cfg,
		persist: opts.Persist,
		bus:     bus,
		keys:    defaultKeyMap(),
		cwd:     cwd,
		edit: editprompt.New(editprompt.Options{
			Config:          cfg,
			Editors:         opts.Editors,
			TempDir:         opts.TempDir,
			TranscriptLimit: cfg.TranscriptLimit,
		}),
		help: help.New(),
	}

	m.session = opts.Session
	if m.session == nil {
		m.session = sessions.New(cfg.Backend, cfg.Model)
	} else if m.session.Model != "" && cfg.Model == "" {
		cfg.Model = m.session.Model
	}

	ta := textarea.New()
	ta.Placeholder = "Ask something, /help for commands, ctrl+o to use " + cfg.Editor
	ta.Prompt = "› "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()
	m.input = ta

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Vitesse.Primary)
	m.spinner = sp

	m.viewport = viewport.New(80, 20)
	m.refreshTranscript()

	b, err := backends.Get(cfg.Backend)
	if err != nil {
		system.Logger.Error("could not select backend", "backend", cfg.Backend, "err", err)
		m.appendMessage(models.NewMessageWithType(models.AuthorPorridge, models.MessageError, err.Error()))
	}
	m.backend = b
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.bus.Listen(), tickCmd(), gitInfoCmd(m.cwd))
}

// Session exposes the conversation, e.g. for saving on exit.
func (m Model) Session() *sessions.Session { return m.session }

func (m Model) modelName() string {
	if m.cfg.Model != "" {
		return m.cfg.Model
	}
	return m.session.Model
}

// busy reports whether something is in flight that the spinner should show.
func (m Model) busy() bool { return m.streaming || m.edit.IsActive() }
