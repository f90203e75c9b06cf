package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next calendar version",
	Long: `Print the version the next release would be tagged with.

Unlike a release run, this does not check whether HEAD is already tagged or
matches a skip pattern.

Examples:
  calverrelease next
  calverrelease next --tag-prefix v`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
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

	fmt.Fprintln(cmd.OutOrStdout(), plan.Version)
	return nil
}
