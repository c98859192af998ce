package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"porridge/internal/sessions"
)

// sessionsCmd groups the saved-conversation subcommands.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved conversations",
}

var sessionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved conversations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := sessions.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "(none)")
			return nil
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("ID", "UPDATED", "MODEL", "MESSAGES", "TITLE")
		for _, s := range list {
			t.Row(s.ID, s.UpdatedAt.Format("2006-01-02 15:04"), s.Model, strconv.Itoa(len(s.Messages)), s.Title())
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove saved conversations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, missing, err := sessions.Remove(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range removed {
			fmt.Fprintf(out, "✓ removed: %s\n", s)
		}
		for _, s := range missing {
			fmt.Fprintf(out, "• not found: %s\n", s)
		}
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsLsCmd, sessionsRmCmd)
	rootCmd.AddCommand(sessionsCmd)
}
