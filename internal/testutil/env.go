package testutil

import (
    "os"
    "testing"
)

// WithEnv sets env var to val for the rest of the test and restores the
// previous value on cleanup. An empty val unsets the variable.
func WithEnv(t *testing.T, key, val string) {
    t.Helper()
    old, had := os.LookupEnv(key)
    if val == "" {
        _ = os.Unsetenv(key)
    } else {
        _ = os.Setenv(key, val)
    }
    t.Cleanup(func() {
        if had {
            _ = os.Setenv(key, old)
        } else {
            _ = os.Unsetenv(key)
        }
    })
}

// WithConfigHome points the user config directory (and HOME, its fallback)
// at a fresh temp dir and clears every variable that feeds the config, so
// tests never see the developer's real settings. Returns the temp dir.
func WithConfigHome(t *testing.T) string {
    t.Helper()
    tmp := t.TempDir()
    WithEnv(t, "XDG_CONFIG_HOME", tmp)
    WithEnv(t, "HOME", tmp)
    for _, k := range []string{"PORRIDGE_EDITOR", "PORRIDGE_BACKEND", "PORRIDGE_MODEL", "VISUAL", "EDITOR"} {
        WithEnv(t, k, "")
    }
    return tmp
}
