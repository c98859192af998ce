package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	tu "porridge/internal/testutil"
)

func TestLoadDefaults(t *testing.T) {
	tu.WithConfigHome(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultEditor, c.Editor)
	require.Equal(t, DefaultBackend, c.Backend)
	require.Equal(t, DefaultTheme, c.Theme)
	require.Equal(t, DefaultTranscriptLimit, c.TranscriptLimit)
	require.Empty(t, c.Source())
}

func TestLoadEditorPrecedence(t *testing.T) {
	tu.WithConfigHome(t)

	tu.WithEnv(t, "EDITOR", "/usr/bin/nano -w")
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "nano", c.Editor)

	tu.WithEnv(t, "VISUAL", "code --wait")
	c, err = Load()
	require.NoError(t, err)
	require.Equal(t, "code", c.Editor)

	_, err = Save(Config{Editor: "helix"})
	require.NoError(t, err)
	c, err = Load()
	require.NoError(t, err)
	require.Equal(t, "helix", c.Editor)

	tu.WithEnv(t, "PORRIDGE_EDITOR", "zed")
	c, err = Load()
	require.NoError(t, err)
	require.Equal(t, "zed", c.Editor)
}

func TestSaveLoadYAML(t *testing.T) {
	tu.WithConfigHome(t)

	in := Default()
	in.Editor = "neovim"
	in.Model = "llama3"
	in.TranscriptLimit = 20
	p, err := Save(in)
	require.NoError(t, err)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, p, c.Source())
	require.Equal(t, "neovim", c.Get(KeyEditor))
	require.Equal(t, "llama3", c.Get(KeyModel))
	require.Equal(t, "20", c.Get(KeyTranscriptLimit))
}

func TestLoadTOMLFallback(t *testing.T) {
	tu.WithConfigHome(t)
	dir, err := Dir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	toml := "editor = \"vscode\"\nbackend = \"echo\"\ntranscript_limit = 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "vscode", c.Editor)
	require.Equal(t, 5, c.TranscriptLimit)
	require.Equal(t, filepath.Join(dir, "config.toml"), c.Source())
}

func TestLoadRejectsBadFile(t *testing.T) {
	tu.WithConfigHome(t)
	dir, err := Dir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("transcript_limit: -3\n"), 0o644))

	_, err = Load()
	require.Error(t, err)
}

func TestSetUnknownKey(t *testing.T) {
	c := Default()
	require.Error(t, c.Set("colour", "red"))
	require.Error(t, c.Set(KeyTranscriptLimit, "many"))
	require.NoError(t, c.Set(KeyBackend, " echo "))
	require.Equal(t, "echo", c.Backend)
	require.Equal(t, "", c.Get("colour"))
}

func TestSchemaMentionsFields(t *testing.T) {
	b, err := MarshalSchema(Schema())
	require.NoError(t, err)
	for _, field := range []string{"editor", "backend", "model", "theme", "transcript_limit"} {
		require.Contains(t, string(b), `"`+field+`"`)
	}
}
