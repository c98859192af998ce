// Package editprompt lets the user write a prompt in an external editor.
//
// A session writes the prompt and transcript to a temp file, launches the
// configured editor and reads the prompt back. Terminal editors block until
// the user quits, so the prompt is usually ready as soon as the launcher
// returns. Windowed editors return as soon as their window opens; when the
// prompt is still unchanged at that point the session keeps watching the
// file until a save produces a new prompt or the user cancels.
//
// Service is driven entirely from the Bubble Tea update loop. Only the file
// watcher runs on its own goroutine and it talks back through the Sender.
package editprompt

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"porridge/internal/models"
	"porridge/internal/system"
)

// ConfigKeyEditor is the configuration key holding the editor name.
const ConfigKeyEditor = "editor"

// DefaultRenderDelay leaves room for at least one frame at Bubble Tea's
// default frame rate before the editor takes over the terminal.
const DefaultRenderDelay = 50 * time.Millisecond

// ConfigStore is the read-only view of configuration the service needs.
type ConfigStore interface {
	Get(key string) string
}

type watchFunc func(file *PromptFile, original, session string, sender Sender) (Aborter, error)

// Options configures a Service. Zero values pick defaults.
type Options struct {
	Config          ConfigStore
	Editors         *Registry
	TempDir         string
	TranscriptLimit int
	RenderDelay     time.Duration
	Logger          *log.Logger
}

// StateKind names the lifecycle state of the current session.
type StateKind int

const (
	StateInactive StateKind = iota
	StateAwaitingRenderTick
	StateEditorRunning
	StateWatchingFile
)

func (k StateKind) String() string {
	switch k {
	case StateAwaitingRenderTick:
		return "awaiting-render-tick"
	case StateEditorRunning:
		return "editor-running"
	case StateWatchingFile:
		return "watching-file"
	}
	return "inactive"
}

type state interface{ kind() StateKind }

type inactive struct{}

type awaitingRenderTick struct {
	session  string
	sender   Sender
	prompt   string
	messages []models.Message
}

type editorRunning struct {
	session  string
	sender   Sender
	editor   string
	file     *PromptFile
	original string
}

type watchingFile struct {
	session  string
	file     *PromptFile
	original string
	handle   Aborter
}

func (inactive) kind() StateKind           { return StateInactive }
func (awaitingRenderTick) kind() StateKind { return StateAwaitingRenderTick }
func (editorRunning) kind() StateKind      { return StateEditorRunning }
func (watchingFile) kind() StateKind       { return StateWatchingFile }

// Service is the edit-prompt state machine.
type Service struct {
	config      ConfigStore
	editors     *Registry
	tempDir     string
	limit       int
	renderDelay time.Duration
	log         *log.Logger
	watch       watchFunc

	state state
}

func New(opts Options) *Service {
	s := &Service{
		config:      opts.Config,
		editors:     opts.Editors,
		tempDir:     opts.TempDir,
		limit:       opts.TranscriptLimit,
		renderDelay: opts.RenderDelay,
		log:         opts.Logger,
		state:       inactive{},
	}
	if s.editors == nil {
		s.editors = DefaultRegistry()
	}
	if s.renderDelay <= 0 {
		s.renderDelay = DefaultRenderDelay
	}
	if s.log == nil {
		s.log = system.Logger
	}
	s.watch = func(file *PromptFile, original, session string, sender Sender) (Aborter, error) {
		return Watch(file, original, session, sender)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Service) State() StateKind { return s.state.kind() }

// IsActive reports whether an edit session is in progress.
func (s *Service) IsActive() bool { return s.State() != StateInactive }

// Session returns the id of the current session, "" when inactive.
func (s *Service) Session() string {
	switch st := s.state.(type) {
	case awaitingRenderTick:
		return st.session
	case editorRunning:
		return st.session
	case watchingFile:
		return st.session
	}
	return ""
}

// Handle applies ev to the current state. The returned command carries any
// messages for the application; a non-nil error means the event ended in a
// failure that has already been logged and turned into an ErrorMsg.
func (s *Service) Handle(ev Event) (tea.Cmd, error) {
	if id := sessionOf(ev); id != "" && id != s.Session() {
		s.log.Debug("dropping edit prompt event from finished session", "event", ev.eventName(), "session", id)
		return nil, nil
	}
	if f, ok := ev.(Failure); ok {
		return s.fail(f.Err, OpUnexpected)
	}

	switch st := s.state.(type) {
	case inactive:
		switch ev := ev.(type) {
		case Begin:
			return s.begin(ev)
		case Cancel:
			return nil, nil
		}
	case awaitingRenderTick:
		switch ev.(type) {
		case RenderTickElapsed:
			return s.launch(st)
		case Cancel:
			s.reset()
			return nil, nil
		}
	case editorRunning:
		switch ev := ev.(type) {
		case EditorExited:
			return s.editorExited(st, ev)
		}
	case watchingFile:
		switch ev := ev.(type) {
		case PromptReady:
			s.reset()
			s.log.Info("edited prompt received from watcher", "session", st.session)
			return emit(NewPromptMsg{Text: ev.Text}), nil
		case Finish:
			return s.finish(st)
		case Cancel:
			s.log.Info("edit prompt cancelled", "session", st.session)
			s.reset()
			return nil, nil
		}
	}

	if _, ok := ev.(Begin); ok {
		return s.reject(newError(KindProtocol, OpAlreadyActive, errors.New("a session is already active")))
	}
	return s.reject(newError(KindProtocol, OpUnexpected,
		fmt.Errorf("event %s is not valid in state %s", ev.eventName(), s.State())))
}

func (s *Service) begin(ev Begin) (tea.Cmd, error) {
	if ev.Sender == nil {
		return s.reject(newError(KindProtocol, OpUnexpected, errors.New("begin without an event sender")))
	}
	id := uuid.NewString()
	s.state = awaitingRenderTick{session: id, sender: ev.Sender, prompt: ev.Prompt, messages: ev.Messages}
	s.log.Debug("edit prompt requested", "session", id)
	return tea.Batch(
		emit(RenderNoticeMsg{}),
		tea.Tick(s.renderDelay, func(time.Time) tea.Msg { return RenderTickElapsed{Session: id} }),
	), nil
}

func (s *Service) launch(st awaitingRenderTick) (tea.Cmd, error) {
	file, err := BuildPromptFile(s.tempDir, st.prompt, st.messages, s.limit)
	if err != nil {
		return s.fail(err, OpCreateTempFile)
	}
	var name string
	if s.config != nil {
		name = s.config.Get(ConfigKeyEditor)
	}
	editor, err := s.editors.Resolve(name)
	if err != nil {
		_ = file.Close()
		return s.fail(err, OpResolveEditor)
	}
	// The prompt as written, not as passed in: normalisation must not read as an edit.
	original, err := file.Parse()
	if err != nil {
		_ = file.Close()
		return s.fail(err, OpCreateTempFile)
	}

	s.state = editorRunning{session: st.session, sender: st.sender, editor: editor.Name(), file: file, original: original}
	s.log.Info("launching editor", "editor", editor.Name(), "blocking", editor.Blocking(), "path", file.Path())
	id := st.session
	return editor.Launch(file.Path(), func(err error) tea.Msg {
		return EditorExited{Session: id, Err: err}
	}), nil
}

func (s *Service) editorExited(st editorRunning, ev EditorExited) (tea.Cmd, error) {
	if ev.Err != nil {
		return s.fail(newError(KindLaunch, OpLaunchEditor, ev.Err), OpLaunchEditor)
	}
	text, err := st.file.Parse()
	if err != nil {
		return s.fail(err, OpParsePrompt)
	}
	if edited(text, st.original) {
		s.reset()
		s.log.Info("editor returned an edited prompt", "editor", st.editor, "session", st.session)
		return emit(NewPromptMsg{Text: text}), nil
	}

	handle, err := s.watch(st.file, st.original, st.session, st.sender)
	if err != nil {
		return s.fail(err, OpCreateWatcher)
	}
	s.state = watchingFile{session: st.session, file: st.file, original: st.original, handle: handle}

	// A save between the first parse and the watch registration raises no event.
	text, err = st.file.Parse()
	if err != nil {
		return s.fail(err, OpParsePrompt)
	}
	if edited(text, st.original) {
		s.reset()
		s.log.Info("prompt saved before the watch started", "editor", st.editor, "session", st.session)
		return emit(NewPromptMsg{Text: text}), nil
	}
	s.log.Info("editor returned without changes, watching prompt file", "editor", st.editor, "path", st.file.Path())
	return nil, nil
}

func (s *Service) finish(st watchingFile) (tea.Cmd, error) {
	text, err := st.file.Parse()
	if err != nil {
		return s.fail(err, OpParsePrompt)
	}
	s.reset()
	if !edited(text, st.original) {
		s.log.Info("edit prompt finished without changes", "session", st.session)
		return nil, nil
	}
	return emit(NewPromptMsg{Text: text}), nil
}

// Close ends any session in progress, whatever its state, and removes its
// prompt file. Nothing is emitted.
func (s *Service) Close() {
	if st := s.State(); st != StateInactive {
		s.log.Info("closing edit prompt session", "state", st, "session", s.Session())
	}
	s.reset()
}

// fail ends the session and reports err to the transcript.
func (s *Service) fail(err error, op string) (tea.Cmd, error) {
	if err == nil {
		err = errors.New("unknown failure")
	}
	op = opOf(err, op)
	s.log.Error(op, "err", err, "state", s.State())
	s.reset()
	return emit(errorMsg(err, op)), err
}

// reject reports a protocol error without touching the current session.
func (s *Service) reject(err *Error) (tea.Cmd, error) {
	s.log.Error(err.Op, "err", err, "state", s.State())
	return emit(errorMsg(err, err.Op)), err
}

// reset releases everything the current session owns and goes inactive.
func (s *Service) reset() {
	switch st := s.state.(type) {
	case editorRunning:
		s.closeFile(st.file)
	case watchingFile:
		st.handle.Abort()
		s.closeFile(st.file)
	}
	s.state = inactive{}
}

func (s *Service) closeFile(f *PromptFile) {
	if err := f.Close(); err != nil {
		s.log.Warn("could not remove prompt file", "path", f.Path(), "err", err)
	}
}

func errorMsg(err error, op string) ErrorMsg {
	text := op
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		text = e.Error()
	}
	return ErrorMsg{Message: models.NewMessageWithType(models.AuthorPorridge, models.MessageError, text)}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
