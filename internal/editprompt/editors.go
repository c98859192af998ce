package editprompt

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Editor launches an external editor against a file.
//
// Launch returns a command whose message is done(err) once the launcher
// process has returned. For terminal editors that means the user quit; for
// windowed editors it usually only means the window opened.
type Editor interface {
	Name() string
	Blocking() bool
	Launch(path string, done func(error) tea.Msg) tea.Cmd
}

// TerminalEditor takes over the terminal until it exits. It runs through
// tea.ExecProcess so Bubble Tea stops rendering and reading input meanwhile.
type TerminalEditor struct {
	name string
	bin  string
	args []string
}

func NewTerminalEditor(name, bin string, args ...string) TerminalEditor {
	return TerminalEditor{name: name, bin: bin, args: args}
}

func (e TerminalEditor) Name() string   { return e.name }
func (e TerminalEditor) Blocking() bool { return true }
func (e TerminalEditor) Binary() string { return e.bin }

func (e TerminalEditor) Launch(path string, done func(error) tea.Msg) tea.Cmd {
	c := exec.Command(e.bin, append(append([]string{}, e.args...), path)...) //nolint:gosec
	return tea.ExecProcess(c, done)
}

// WindowEditor opens its own window and leaves the terminal alone.
type WindowEditor struct {
	name string
	bin  string
	args []string
}

func NewWindowEditor(name, bin string, args ...string) WindowEditor {
	return WindowEditor{name: name, bin: bin, args: args}
}

func (e WindowEditor) Name() string   { return e.name }
func (e WindowEditor) Blocking() bool { return false }
func (e WindowEditor) Binary() string { return e.bin }

func (e WindowEditor) Launch(path string, done func(error) tea.Msg) tea.Cmd {
	bin, args := e.bin, append(append([]string{}, e.args...), path)
	return func() tea.Msg {
		out, err := exec.Command(bin, args...).CombinedOutput() //nolint:gosec
		if err != nil && len(out) > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
		}
		return done(err)
	}
}

// Registry maps configured editor names to launchers.
type Registry struct {
	editors map[string]Editor
}

func NewRegistry() *Registry {
	return &Registry{editors: map[string]Editor{}}
}

// Register adds e under its name and every alias.
func (r *Registry) Register(e Editor, aliases ...string) {
	r.editors[strings.ToLower(e.Name())] = e
	for _, a := range aliases {
		r.editors[strings.ToLower(a)] = e
	}
}

// Resolve looks up name. Unknown names are configuration errors.
func (r *Registry) Resolve(name string) (Editor, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return nil, newError(KindConfiguration, OpResolveEditor, fmt.Errorf("no editor configured"))
	}
	e, ok := r.editors[n]
	if !ok {
		return nil, newError(KindConfiguration, OpResolveEditor,
			fmt.Errorf("unknown editor %q (known: %s)", name, strings.Join(r.Names(), ", ")))
	}
	return e, nil
}

// Names lists registered names and aliases, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.editors))
	for k := range r.editors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Editors lists each registered editor once, under its own name, sorted.
func (r *Registry) Editors() []Editor {
	out := make([]Editor, 0, len(r.editors))
	for k, e := range r.editors {
		if k == strings.ToLower(e.Name()) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// DefaultRegistry knows the editors porridge supports out of the box.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewTerminalEditor("vim", "vim"), "vi")
	r.Register(NewTerminalEditor("neovim", "nvim"), "nvim")
	r.Register(NewTerminalEditor("nano", "nano"))
	r.Register(NewTerminalEditor("emacs", "emacs", "-nw"))
	r.Register(NewTerminalEditor("helix", "hx"), "hx")
	r.Register(NewTerminalEditor("micro", "micro"))
	r.Register(NewWindowEditor("vscode", "code"), "code")
	r.Register(NewWindowEditor("zed", "zed"))
	r.Register(NewWindowEditor("sublime", "subl"), "subl")
	return r
}
