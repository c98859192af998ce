package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"porridge/internal/models"
	"porridge/internal/sessions"
	tu "porridge/internal/testutil"
	appver "porridge/internal/version"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	require.Equal(t, appver.AppVersion+"\n", execute(t, "version"))

	t.Cleanup(func() { versionVerbose = false })
	out := execute(t, "version", "--verbose")
	require.True(t, strings.HasPrefix(out, appver.AppVersion+"\n"))
	require.Contains(t, out, "go:")
}

func TestConfigCommandCreatesFile(t *testing.T) {
	tu.WithConfigHome(t)
	out := execute(t, "config")
	require.Contains(t, out, "✓ created")
	require.Contains(t, out, "vim")

	out = execute(t, "config")
	require.Contains(t, out, "keeping existing config")
}

func TestConfigSchemaCommand(t *testing.T) {
	out := execute(t, "config", "schema")
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	require.Contains(t, out, "transcript_limit")
}

func TestSessionsCommands(t *testing.T) {
	tu.WithConfigHome(t)
	require.Contains(t, execute(t, "sessions", "ls"), "(none)")

	s := sessions.New("echo", "shout")
	s.Messages = append(s.Messages, models.NewMessage(models.AuthorUser, "how do I exit vim"))
	require.NoError(t, sessions.Save(s))

	out := execute(t, "sessions", "ls")
	require.Contains(t, out, s.ID)
	require.Contains(t, out, "how do I exit vim")

	out = execute(t, "sessions", "rm", s.ID)
	require.Contains(t, out, "removed: "+s.ID)
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	tu.WithConfigHome(t)
	tu.WithEnv(t, "PORRIDGE_EDITOR", "nano")
	rootFlags.editor = "helix"
	rootFlags.model = "shout"
	t.Cleanup(func() { rootFlags.editor, rootFlags.model = "", "" })

	c, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, "helix", c.Editor)
	require.Equal(t, "shout", c.Model)
	require.Equal(t, "echo", c.Backend)
}

func TestCheckCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts required")
	}
	tu.WithConfigHome(t)
	bin := t.TempDir()
	script := "#!/bin/sh\necho \"NVIM v0.10.1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "nvim"), []byte(script), 0o755))
	tu.WithEnv(t, "PATH", bin)

	tu.WithEnv(t, "PORRIDGE_EDITOR", "nvim")
	out := execute(t, "check")
	require.Contains(t, out, "0.10.1")
	require.Contains(t, out, "configured editor: neovim")

	tu.WithEnv(t, "PORRIDGE_EDITOR", "nano")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"check"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	require.ErrorContains(t, err, `"nano" is not installed`)
	require.Contains(t, buf.String(), "✗ missing")
}
