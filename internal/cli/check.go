package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"porridge/internal/editprompt"
	"porridge/internal/tools"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show which supported editors are installed",
	Long:  "check looks up every supported editor in PATH and reports its version. It fails when the configured editor is missing.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		reg := editprompt.DefaultRegistry()
		configured := ""
		if e, err := reg.Resolve(c.Editor); err == nil {
			configured = e.Name()
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		results := tools.CheckAll(ctx, tools.Targets(reg))

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("", "EDITOR", "KIND", "STATUS", "VERSION", "PATH")
		var configuredMissing bool
		for _, r := range results {
			mark, kind, status := "", "window", "✗ missing"
			if r.Name == configured {
				mark = "▸"
			}
			if r.Terminal {
				kind = "terminal"
			}
			if r.Installed {
				status = "✓ installed"
			} else if r.Name == configured {
				configuredMissing = true
			}
			t.Row(mark, r.Name, kind, status, r.Version, r.Path)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, t.String())

		switch {
		case configured == "":
			return fmt.Errorf("configured editor %q is not supported", c.Editor)
		case configuredMissing:
			return fmt.Errorf("configured editor %q is not installed", configured)
		}
		fmt.Fprintf(out, "configured editor: %s\n", configured)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
