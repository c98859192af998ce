package editprompt

import (
	tea "github.com/charmbracelet/bubbletea"

	"porridge/internal/models"
)

// Sender pushes messages onto the application event bus. It must be safe to
// call from any goroutine.
type Sender interface {
	Send(msg tea.Msg)
}

// Event is consumed by Service.Handle.
type Event interface {
	eventName() string
}

// Begin requests a new edit session for the current prompt and transcript.
type Begin struct {
	Sender   Sender
	Prompt   string
	Messages []models.Message
}

// RenderTickElapsed fires once the waiting notice has had a frame to paint.
type RenderTickElapsed struct{ Session string }

// EditorExited reports that the launcher process returned.
type EditorExited struct {
	Session string
	Err     error
}

// PromptReady carries an edited prompt observed by the watcher.
type PromptReady struct {
	Session string
	Text    string
}

// Finish is the user confirming they are done editing.
type Finish struct{}

// Cancel abandons the current session.
type Cancel struct{}

// Failure ends the session with an error.
type Failure struct {
	Session string
	Err     error
}

func (Begin) eventName() string             { return "begin" }
func (RenderTickElapsed) eventName() string { return "render-tick-elapsed" }
func (EditorExited) eventName() string      { return "editor-exited" }
func (PromptReady) eventName() string       { return "prompt-ready" }
func (Finish) eventName() string            { return "finish" }
func (Cancel) eventName() string            { return "cancel" }
func (Failure) eventName() string           { return "failure" }

// sessionOf returns the session an event belongs to, or "" for events aimed
// at whatever session is current.
func sessionOf(ev Event) string {
	switch ev := ev.(type) {
	case RenderTickElapsed:
		return ev.Session
	case EditorExited:
		return ev.Session
	case PromptReady:
		return ev.Session
	case Failure:
		return ev.Session
	}
	return ""
}

// Messages the subsystem emits to the rest of the application.

// RenderNoticeMsg asks the UI to paint the waiting-for-editor notice.
type RenderNoticeMsg struct{}

// NewPromptMsg delivers a finished edit. It is emitted at most once per session.
type NewPromptMsg struct{ Text string }

// ErrorMsg carries a transcript message of error type.
type ErrorMsg struct{ Message models.Message }
