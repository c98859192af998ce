package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"porridge/internal/backend"
	"porridge/internal/config"
	"porridge/internal/sessions"
	"porridge/internal/system"
	"porridge/internal/ui"
)

// Options are the resolved command-line settings for the chat TUI.
type Options struct {
	Config config.Config
	// SessionID resumes a saved conversation when set.
	SessionID string
	// LogFile overrides the default log location.
	LogFile string
	Debug   bool
}

// Start runs the TUI program and returns any error.
func Start(opts Options) error {
	logPath := opts.LogFile
	if logPath == "" {
		p, err := config.LogPath()
		if err != nil {
			return err
		}
		logPath = p
	}
	// stderr belongs to the alt screen from here on
	logFile, err := system.LogToFile(logPath, opts.Debug)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	var session *sessions.Session
	if opts.SessionID != "" {
		session, err = sessions.Load(opts.SessionID)
		if err != nil {
			return err
		}
	}

	cfg := opts.Config
	bus := ui.NewBus()
	defer bus.Close()

	// Initialize global bubblezone manager for mouse-aware zones.
	zone.NewGlobal()
	m := ui.New(ui.Options{
		Config:   &cfg,
		Backends: backend.Default(),
		Session:  session,
		Persist:  true,
		Bus:      bus,
	})
	system.Logger.Info("starting porridge", "editor", cfg.Editor, "backend", cfg.Backend, "model", cfg.Model, "config", cfg.Source())

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		system.Logger.Error("program exited with error", "err", err)
		return err
	}
	if fm, ok := final.(ui.Model); ok && len(fm.Session().Messages) > 0 {
		fmt.Printf("Conversation saved. Resume with: porridge --session %s\n", fm.Session().ID)
	}
	return nil
}
