package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"porridge/internal/config"
)

func TestDefaultChoices(t *testing.T) {
	c := DefaultChoices(context.Background())
	require.Contains(t, c.Editors, "vim")
	require.Contains(t, c.Editors, "vscode")
	require.NotContains(t, c.Editors, "nvim", "aliases are not offered")
	require.Equal(t, []string{"echo"}, c.Backends)
	require.Contains(t, c.Models["echo"], "shout")
}

func TestOptionsKeepsUnknownCurrent(t *testing.T) {
	opts := options([]string{"a", "b"}, "c")
	require.Len(t, opts, 3)
	require.Equal(t, "c", opts[2].Value)

	require.Len(t, options([]string{"a", "b"}, "a"), 2)
	require.Len(t, options([]string{"a"}, ""), 1)
}

func TestNewFormBuilds(t *testing.T) {
	c := config.Default()
	c.Editor = "vim"
	form, limit := NewForm(&c, DefaultChoices(context.Background()))
	require.NotNil(t, form)
	require.Equal(t, "100", *limit)
}
