package cli

import (
    "fmt"
    "os"

    "github.com/spf13/cobra"

    "porridge/internal/app"
    "porridge/internal/config"
)

// flags for the root command; empty values leave the config untouched
var rootFlags struct {
    editor  string
    backend string
    model   string
    session string
    logFile string
    debug   bool
}

var rootCmd = &cobra.Command{
    Use:   "porridge",
    Short: "porridge – chat with a model, write prompts in your editor",
    Long:  "porridge is a terminal chat client. Press ctrl+o (or type /edit) to compose the prompt in your external editor.",
    Args:  cobra.NoArgs,
    RunE: func(cmd *cobra.Command, args []string) error {
        c, err := loadConfig()
        if err != nil {
            return err
        }
        return app.Start(app.Options{
            Config:    c,
            SessionID: rootFlags.session,
            LogFile:   rootFlags.logFile,
            Debug:     rootFlags.debug,
        })
    },
    SilenceUsage:  true,
    SilenceErrors: true,
}

func init() {
    f := rootCmd.Flags()
    f.StringVarP(&rootFlags.editor, "editor", "e", "", "editor used to compose prompts (vim, neovim, vscode, ...)")
    f.StringVarP(&rootFlags.backend, "backend", "b", "", "chat backend")
    f.StringVarP(&rootFlags.model, "model", "m", "", "model requested from the backend")
    f.StringVarP(&rootFlags.session, "session", "s", "", "resume a saved session by id")
    f.StringVar(&rootFlags.logFile, "log-file", "", "write logs here instead of the config directory")
    f.BoolVar(&rootFlags.debug, "debug", false, "enable debug logging")
}

// loadConfig reads the config and applies flag overrides on top.
func loadConfig() (config.Config, error) {
    c, err := config.Load()
    if err != nil {
        return c, err
    }
    overrides := map[string]string{
        config.KeyEditor:  rootFlags.editor,
        config.KeyBackend: rootFlags.backend,
        config.KeyModel:   rootFlags.model,
    }
    for k, v := range overrides {
        if v == "" {
            continue
        }
        if err := c.Set(k, v); err != nil {
            return c, err
        }
    }
    return c, nil
}

// Execute runs the CLI.
func Execute() {
    if err := rootCmd.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}
