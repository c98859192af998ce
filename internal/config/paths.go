package config

import (
    "errors"
    "os"
    "path/filepath"
    "strings"
)

// Dir returns the porridge config directory under the user config base.
// On Linux, this typically resolves to $XDG_CONFIG_HOME/porridge; on macOS
// to ~/Library/Application Support/porridge; and on Windows to %AppData%/porridge.
// Falls back to HOME when UserConfigDir is unavailable.
func Dir() (string, error) {
    base, err := os.UserConfigDir()
    if err != nil || strings.TrimSpace(base) == "" {
        if home, herr := os.UserHomeDir(); herr == nil {
            base = home
        } else {
            return "", errors.New("cannot determine config directory")
        }
    }
    return filepath.Join(base, "porridge"), nil
}

// SessionsDir holds saved conversations.
func SessionsDir() (string, error) {
    dir, err := Dir()
    if err != nil {
        return "", err
    }
    return filepath.Join(dir, "sessions"), nil
}

// LogPath is where the TUI writes its log, since stderr belongs to the screen.
func LogPath() (string, error) {
    dir, err := Dir()
    if err != nil {
        return "", err
    }
    return filepath.Join(dir, "porridge.log"), nil
}

// YAMLPath and TOMLPath are the two accepted config file locations; YAML wins
// when both exist.
func YAMLPath() (string, error) {
    dir, err := Dir()
    if err != nil {
        return "", err
    }
    return filepath.Join(dir, "config.yaml"), nil
}

func TOMLPath() (string, error) {
    dir, err := Dir()
    if err != nil {
        return "", err
    }
    return filepath.Join(dir, "config.toml"), nil
}
