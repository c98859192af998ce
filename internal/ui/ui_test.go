package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"porridge/internal/backend"
	"porridge/internal/config"
	"porridge/internal/editprompt"
	"porridge/internal/models"
	"porridge/internal/sessions"
	tu "porridge/internal/testutil"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

// fakeEditor stands in for a windowed editor: it optionally rewrites the
// prompt file and returns straight away.
type fakeEditor struct {
	name  string
	write string
}

func (e fakeEditor) Name() string   { return e.name }
func (e fakeEditor) Blocking() bool { return false }
func (e fakeEditor) Launch(path string, done func(error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if e.write != "" {
			if err := os.WriteFile(path, []byte(e.write), 0o600); err != nil {
				return done(err)
			}
		}
		return done(nil)
	}
}

func editedFile(prompt string) string {
	return prompt + "\n" + editprompt.Delimiter + "\n"
}

type fixture struct {
	m       Model
	bus     *Bus
	tempDir string
}

func newFixture(t *testing.T, editor string, persist bool, editors ...editprompt.Editor) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Editor = editor
	reg := editprompt.NewRegistry()
	for _, e := range editors {
		reg.Register(e)
	}
	backends := backend.NewRegistry()
	backends.Register(&backend.Echo{})
	bus := NewBus()
	t.Cleanup(bus.Close)

	f := &fixture{bus: bus, tempDir: t.TempDir()}
	f.m = New(Options{
		Config:   &cfg,
		Backends: backends,
		Bus:      bus,
		Editors:  reg,
		TempDir:  f.tempDir,
		Cwd:      t.TempDir(),
		Persist:  persist,
	})
	f.m, _ = f.m.update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return f
}

// run executes cmd and flattens batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// send applies msg and then every message its commands produce, skipping
// the self-perpetuating spinner and cursor ticks.
func (f *fixture) send(msg tea.Msg) {
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0; i++ {
		if i > 50 {
			panic("message loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		f.m, cmd = f.m.update(next)
		for _, out := range run(cmd) {
			switch out.(type) {
			case spinner.TickMsg, cursor.BlinkMsg:
				continue
			}
			queue = append(queue, out)
		}
	}
}

func (f *fixture) key(k tea.KeyType) { f.send(tea.KeyMsg{Type: k}) }

// fromBus waits for the next message pushed by a background goroutine.
func (f *fixture) fromBus(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-f.bus.ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for bus message")
		return nil
	}
}

func (f *fixture) drainStream(t *testing.T) {
	t.Helper()
	for f.m.streaming {
		f.send(f.fromBus(t))
	}
}

func TestWrapText(t *testing.T) {
	require.Equal(t, "hello\nworld", wrapText("hello world", 5))
	require.Equal(t, "a b c", wrapText("a b c", 10))
	require.Equal(t, "abc\ndef\ngh", wrapText("abcdefgh", 3))
	require.Equal(t, "你好\n世界", wrapText("你好世界", 4))
	require.Equal(t, "one\n\ntwo", wrapText("one\n\ntwo", 10))
}

func TestTrimEdgeBlankLines(t *testing.T) {
	require.Equal(t, "a\n\nb", trimEdgeBlankLines("\n  \na\n\nb\n \n"))
	require.Equal(t, "", trimEdgeBlankLines("\n\n"))
}

func TestFilterSlashCommands(t *testing.T) {
	require.Len(t, filterSlashCommands("/"), len(slashCmds))
	require.Equal(t, "/edit", filterSlashCommands("/e")[0].Name)
	require.Equal(t, "/modellist", filterSlashCommands("/ml")[0].Name)

	names := []string{}
	for _, c := range filterSlashCommands("/mod") {
		names = append(names, c.Name)
	}
	require.Contains(t, names, "/model")
	require.Contains(t, names, "/modellist")

	require.Empty(t, filterSlashCommands("/zzz"))
}

func TestBus(t *testing.T) {
	bus := NewBus()
	bus.Send(noticeMsg("hi"))
	require.Equal(t, busMsg{msg: noticeMsg("hi")}, bus.Listen()())

	bus.Close()
	require.Nil(t, bus.Listen()())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Send(noticeMsg("dropped"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a closed bus")
	}
}

func TestBusMsgResubscribes(t *testing.T) {
	f := newFixture(t, "vim", false)
	m, cmd := f.m.update(busMsg{msg: noticeMsg("from bus")})
	require.Equal(t, "from bus", m.notice)
	require.NotNil(t, cmd)
}

func TestSendPromptStreamsReply(t *testing.T) {
	f := newFixture(t, "vim", false)
	f.m.input.SetValue("hello there world")
	f.key(tea.KeyEnter)

	require.True(t, f.m.streaming)
	require.Empty(t, f.m.input.Value())
	f.drainStream(t)

	msgs := f.m.session.Messages
	require.Len(t, msgs, 2)
	require.True(t, msgs[0].IsUser())
	require.Equal(t, "hello there world", msgs[1].Text)
	require.Contains(t, view(f.m), "hello there world")
}

func TestStaleStreamChunkIgnored(t *testing.T) {
	f := newFixture(t, "vim", false)
	before := len(f.m.session.Messages)
	f.send(streamChunkMsg{id: 42, resp: backend.Response{Text: "ghost"}})
	require.Len(t, f.m.session.Messages, before)
}

func TestBlankPromptNotSent(t *testing.T) {
	f := newFixture(t, "vim", false)
	f.m.input.SetValue("   ")
	f.key(tea.KeyEnter)
	require.False(t, f.m.streaming)
	require.Empty(t, f.m.session.Messages)
}

func TestSlashModelAndAppend(t *testing.T) {
	f := newFixture(t, "vim", false)

	f.m.input.SetValue("/m shout")
	f.key(tea.KeyEnter)
	require.Equal(t, "shout", f.m.cfg.Model)
	require.Equal(t, "shout", f.m.session.Model)

	f.m.session.Messages = append(f.m.session.Messages,
		models.NewMessage(models.ModelAuthor("shout"), "try:\n\n```sh\nmake test\n```\n"))

	f.m.input.SetValue("/r")
	f.key(tea.KeyEnter)
	require.Equal(t, "make test", f.m.input.Value())

	f.m.input.SetValue("/a 1")
	f.key(tea.KeyEnter)
	require.Equal(t, "make test", f.m.input.Value())

	f.m.input.SetValue("/a 7")
	f.key(tea.KeyEnter)
	require.Contains(t, f.m.notice, "out of range")
}

func TestSlashHelpAndModelList(t *testing.T) {
	f := newFixture(t, "vim", false)
	f.m.input.SetValue("/help")
	f.key(tea.KeyEnter)
	f.m.input.SetValue("/ml")
	f.key(tea.KeyEnter)

	msgs := f.m.session.Messages
	require.Len(t, msgs, 2)
	require.Contains(t, msgs[0].Text, "/replace")
	require.Contains(t, msgs[1].Text, backend.ShoutModel)
}

func TestPaletteVisibility(t *testing.T) {
	f := newFixture(t, "vim", false)
	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, f.m.slashVisible)
	require.Contains(t, view(f.m), "/modellist")

	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.Equal(t, "/edit", f.m.slashFiltered[0].Name)

	f.key(tea.KeyEsc)
	require.False(t, f.m.slashVisible)
	require.Empty(t, f.m.input.Value())
}

func TestEditPromptReturnsEditedText(t *testing.T) {
	f := newFixture(t, "fake", false, fakeEditor{name: "fake", write: editedFile("edited prompt")})
	f.m.input.SetValue("draft")

	// Begin only; the render tick has not fired yet.
	var cmd tea.Cmd
	f.m, cmd = f.m.update(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Equal(t, editprompt.StateAwaitingRenderTick, f.m.edit.State())
	require.Contains(t, view(f.m), WaitingNotice)

	for _, msg := range run(cmd) {
		f.send(msg)
	}
	require.False(t, f.m.edit.IsActive())
	require.Equal(t, "edited prompt", f.m.input.Value())
	require.True(t, f.m.input.Focused())

	matches, err := filepath.Glob(filepath.Join(f.tempDir, "porridge-prompt-*"))
	require.NoError(t, err)
	require.Empty(t, matches, "prompt file should be removed")
}

func TestEditPromptWatchesUntilSaved(t *testing.T) {
	f := newFixture(t, "fake", false, fakeEditor{name: "fake"})
	f.m.input.SetValue("draft")
	f.key(tea.KeyCtrlO)
	require.Equal(t, editprompt.StateWatchingFile, f.m.edit.State())
	require.Contains(t, view(f.m), WaitingNotice)

	// typing is ignored while the overlay is up
	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Equal(t, "draft", f.m.input.Value())

	matches, err := filepath.Glob(filepath.Join(f.tempDir, "porridge-prompt-*"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NoError(t, os.WriteFile(matches[0], []byte(editedFile("saved later")), 0o600))

	f.send(f.fromBus(t))
	require.False(t, f.m.edit.IsActive())
	require.Equal(t, "saved later", f.m.input.Value())
}

func TestEditPromptContinueWithoutChanges(t *testing.T) {
	f := newFixture(t, "fake", false, fakeEditor{name: "fake"})
	f.m.input.SetValue("draft")
	f.key(tea.KeyCtrlO)
	require.Equal(t, editprompt.StateWatchingFile, f.m.edit.State())

	f.key(tea.KeyEnter)
	require.False(t, f.m.edit.IsActive())
	require.Equal(t, "draft", f.m.input.Value())
	require.Empty(t, f.m.session.Messages, "continue must not send the prompt")
}

func TestEditPromptCancel(t *testing.T) {
	f := newFixture(t, "fake", false, fakeEditor{name: "fake"})
	f.m.input.SetValue("draft")
	f.key(tea.KeyCtrlO)
	require.True(t, f.m.edit.IsActive())

	f.key(tea.KeyEsc)
	require.False(t, f.m.edit.IsActive())
	require.Equal(t, "draft", f.m.input.Value())
	require.NotContains(t, view(f.m), WaitingNotice)
}

func TestEditPromptUnknownEditorReportsError(t *testing.T) {
	f := newFixture(t, "nope", false)
	f.m.input.SetValue("/edit")
	f.key(tea.KeyEnter)

	require.False(t, f.m.edit.IsActive())
	msgs := f.m.session.Messages
	require.Len(t, msgs, 1)
	require.Equal(t, models.MessageError, msgs[0].Type)
	require.Contains(t, msgs[0].Text, editprompt.OpResolveEditor)
}

func TestSessionPersisted(t *testing.T) {
	tu.WithConfigHome(t)
	f := newFixture(t, "vim", true)
	f.m.input.SetValue("keep me")
	f.key(tea.KeyEnter)
	f.drainStream(t)

	s, err := sessions.Load(f.m.session.ID)
	require.NoError(t, err)
	require.Len(t, s.Messages, 2)
	require.Equal(t, "keep me", s.Messages[1].Text)
}

func TestQuitCancelsWatchingSession(t *testing.T) {
	f := newFixture(t, "fake", false, fakeEditor{name: "fake"})
	f.key(tea.KeyCtrlO)
	require.True(t, f.m.edit.IsActive())

	m, cmd := f.m.update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, m.quitting)
	require.False(t, m.edit.IsActive())
	require.NotNil(t, cmd)
	require.Equal(t, "", m.View())
}

func TestQuitWhileEditorRunningRemovesPromptFile(t *testing.T) {
	f := newFixture(t, "fake", false, fakeEditor{name: "fake", write: editedFile("never read")})
	m, cmd := f.m.update(tea.KeyMsg{Type: tea.KeyCtrlO})
	var tick editprompt.RenderTickElapsed
	for _, msg := range run(cmd) {
		if ev, ok := msg.(editprompt.RenderTickElapsed); ok {
			tick = ev
		}
	}
	require.NotEmpty(t, tick.Session)

	// The launch command is left unrun: the editor is still open.
	m, _ = m.update(tick)
	require.Equal(t, editprompt.StateEditorRunning, m.edit.State())
	entries, err := os.ReadDir(f.tempDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, m.quitting)
	require.False(t, m.edit.IsActive())
	entries, err = os.ReadDir(f.tempDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func view(m Model) string { return xansi.Strip(m.View()) }
