package editprompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryResolve(t *testing.T) {
	r := DefaultRegistry()

	e, err := r.Resolve("NVIM")
	require.NoError(t, err)
	require.Equal(t, "neovim", e.Name())
	require.True(t, e.Blocking())

	e, err = r.Resolve(" code ")
	require.NoError(t, err)
	require.Equal(t, "vscode", e.Name())
	require.False(t, e.Blocking())
}

func TestRegistryResolveUnknown(t *testing.T) {
	_, err := DefaultRegistry().Resolve("ed")
	require.ErrorIs(t, err, ErrConfiguration)
	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, OpResolveEditor, e.Op)
	require.Contains(t, err.Error(), "unknown editor")

	_, err = DefaultRegistry().Resolve("")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestWindowEditorLaunchReportsExitError(t *testing.T) {
	e := NewWindowEditor("missing", "porridge-editor-that-does-not-exist")
	msg := e.Launch("/tmp/x", func(err error) tea.Msg { return err })()
	require.Error(t, msg.(error))
}

func TestRegistryEditorsSkipsAliases(t *testing.T) {
	var names []string
	for _, e := range DefaultRegistry().Editors() {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"emacs", "helix", "micro", "nano", "neovim", "sublime", "vim", "vscode", "zed"}, names)
}
