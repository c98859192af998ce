// Package config loads porridge settings.
//
// Settings come from, in increasing precedence: built-in defaults,
// VISUAL/EDITOR (editor only), config.yaml or config.toml in Dir(), the
// PORRIDGE_* environment variables and finally command-line flags, which the
// cli package applies with Set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Keys understood by Get and Set.
const (
	KeyEditor          = "editor"
	KeyBackend         = "backend"
	KeyModel           = "model"
	KeyTheme           = "theme"
	KeyTranscriptLimit = "transcript_limit"
)

const (
	DefaultEditor          = "vim"
	DefaultBackend         = "echo"
	DefaultTheme           = "dark"
	DefaultTranscriptLimit = 100
)

// Config is the on-disk configuration.
type Config struct {
	Editor          string `yaml:"editor,omitempty" toml:"editor" json:"editor,omitempty" jsonschema:"description=External editor used to compose prompts"`
	Backend         string `yaml:"backend,omitempty" toml:"backend" json:"backend,omitempty" jsonschema:"description=Chat backend name"`
	Model           string `yaml:"model,omitempty" toml:"model" json:"model,omitempty" jsonschema:"description=Model requested from the backend"`
	Theme           string `yaml:"theme,omitempty" toml:"theme" json:"theme,omitempty" jsonschema:"enum=dark,enum=light,enum=notty,description=Markdown rendering style"`
	TranscriptLimit int    `yaml:"transcript_limit,omitempty" toml:"transcript_limit" json:"transcript_limit,omitempty" jsonschema:"minimum=1,description=Messages copied into the prompt file"`

	// source is the file the config was read from, empty for defaults.
	source string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:         DefaultBackend,
		Theme:           DefaultTheme,
		TranscriptLimit: DefaultTranscriptLimit,
	}
}

// Load reads the config file (if any) and applies environment overrides.
func Load() (Config, error) {
	c := Default()
	c.Editor = editorFromEnv("VISUAL", "EDITOR")

	yp, err := YAMLPath()
	if err != nil {
		return c, err
	}
	tp, err := TOMLPath()
	if err != nil {
		return c, err
	}
	for _, p := range []string{yp, tp} {
		if _, statErr := os.Stat(p); statErr != nil {
			if errors.Is(statErr, os.ErrNotExist) {
				continue
			}
			return c, statErr
		}
		if err := c.mergeFile(p); err != nil {
			return c, err
		}
		break
	}

	if v := editorFromEnv("PORRIDGE_EDITOR"); v != "" {
		c.Editor = v
	}
	if v := strings.TrimSpace(os.Getenv("PORRIDGE_BACKEND")); v != "" {
		c.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("PORRIDGE_MODEL")); v != "" {
		c.Model = v
	}
	if c.Editor == "" {
		c.Editor = DefaultEditor
	}
	return c, nil
}

// mergeFile overlays the non-empty fields of the file at path onto c.
func (c *Config) mergeFile(path string) error {
	var f Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	for _, k := range []string{KeyEditor, KeyBackend, KeyModel, KeyTheme, KeyTranscriptLimit} {
		if v := f.Get(k); v != "" && v != "0" {
			if err := c.Set(k, v); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	c.source = path
	return nil
}

// Save writes c as YAML to the default location.
func Save(c Config) (string, error) {
	p, err := YAMLPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return p, os.WriteFile(p, b, 0o644)
}

// Source returns the file this config was read from, or "".
func (c Config) Source() string { return c.source }

// Get returns the value for key as a string; unknown keys yield "".
func (c Config) Get(key string) string {
	switch key {
	case KeyEditor:
		return c.Editor
	case KeyBackend:
		return c.Backend
	case KeyModel:
		return c.Model
	case KeyTheme:
		return c.Theme
	case KeyTranscriptLimit:
		return strconv.Itoa(c.TranscriptLimit)
	}
	return ""
}

// Set assigns key from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyEditor:
		c.Editor = value
	case KeyBackend:
		c.Backend = value
	case KeyModel:
		c.Model = value
	case KeyTheme:
		c.Theme = value
	case KeyTranscriptLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q", key, value)
		}
		c.TranscriptLimit = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// editorFromEnv returns the first non-empty variable reduced to the binary's
// base name, so EDITOR="/usr/bin/nvim -p" resolves as "nvim".
func editorFromEnv(vars ...string) string {
	for _, v := range vars {
		fields := strings.Fields(os.Getenv(v))
		if len(fields) > 0 {
			return filepath.Base(fields[0])
		}
	}
	return ""
}
