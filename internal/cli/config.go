package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfg "porridge/internal/config"
	"porridge/internal/settings"
)

func init() {
	rootCmd.AddCommand(configCmd, settingsCmd)
	configCmd.AddCommand(configSchemaCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create the config file and print its location",
	Long:  "Writes config.yaml with the current settings when no config file exists yet, then prints the config directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c, err := cfg.Load()
		if err != nil {
			return err
		}
		if src := c.Source(); src != "" {
			fmt.Fprintf(out, "• keeping existing config: %s\n", src)
		} else {
			p, err := cfg.Save(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ created %s\n", p)
		}
		dir, err := cfg.Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nconfig directory: %s\n", dir)
		for _, k := range []string{cfg.KeyEditor, cfg.KeyBackend, cfg.KeyModel, cfg.KeyTheme, cfg.KeyTranscriptLimit} {
			fmt.Fprintf(out, "  %-17s %s\n", k, c.Get(k))
		}
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cfg.MarshalSchema(cfg.Schema())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

// settingsCmd edits the same file through an interactive form.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Choose editor, backend and model interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settings.Run(cmd.Context())
	},
}
