package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Print the release notes for the next version",
	Long: `Print the release notes that would be stored in the next release tag:
the subjects of all commits since the previous tag, newest first, followed
by the footer.

Examples:
  calverrelease notes
  calverrelease notes --footer ""`,
	Args: cobra.NoArgs,
	RunE: runNotes,
}

func init() {
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c, err := newConductor(cmd, cfg)
	if err != nil {
		return err
	}

	plan, err := c.Plan(cmd.Context(), cfg.ConductorOptions())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), plan.Notes)
	return nil
}
