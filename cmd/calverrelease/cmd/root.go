package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/grokify/calverrelease/internal/collector"
	"github.com/grokify/calverrelease/internal/conductor"
	"github.com/grokify/calverrelease/internal/config"
	"github.com/grokify/calverrelease/internal/ghoutput"
	"github.com/grokify/calverrelease/internal/releaser"
	"github.com/grokify/calverrelease/internal/report"
	"github.com/grokify/calverrelease/pkg/model"
)

// now is the clock used for version calculation.
var now = time.Now

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "calverrelease",
	Short: "Tag and push calendar-versioned releases",
	Long: `calverrelease tags the current HEAD with the next calendar version
(YEAR.MONTH.PATCH) and pushes the tag, using the commit subjects since the
previous tag as release notes.

No release is made when HEAD is already tagged or when its commit subject
contains a skip pattern such as "[skip release]".

Examples:
  # Preview the next release
  calverrelease --dry-run

  # Release with custom skip patterns
  calverrelease --skip-pattern "[no-release]" --skip-pattern "[skip-ci]"

  # Release and create a GitHub release
  calverrelease --github-release --format markdown`,
	SilenceUsage: true,
	RunE:         runRelease,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.AddFlags(rootCmd.PersistentFlags())
}

// loadConfig resolves settings for cmd from the config file, environment
// and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var searchPaths []string
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, home)
	}
	searchPaths = append(searchPaths, ".")

	cfg, err := config.Load(config.LoadOptions{
		SearchPaths: searchPaths,
		Flags:       cmd.Flags(),
	})
	if err != nil {
		return cfg, err
	}

	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Repository: %s\n", cfg.RepoPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "Skip patterns: %q\n", cfg.SkipPatterns)
	}
	return cfg, nil
}

// newConductor opens the repository and wires the release steps enabled
// in cfg.
func newConductor(cmd *cobra.Command, cfg config.Config) (*conductor.Conductor, error) {
	coll, err := collector.NewGitCollector(cfg.RepoPath)
	if err != nil {
		return nil, err
	}

	var opts []releaser.GitOption
	if cfg.Verbose {
		opts = append(opts, releaser.WithProgress(cmd.ErrOrStderr()))
	}

	c := conductor.New(coll, releaser.NewGitReleaser(coll.Repository(), opts...))
	c.Now = now
	if cfg.Verbose {
		c.Log = cmd.ErrOrStderr()
	}
	return c, nil
}

func runRelease(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var formatter report.Formatter
	if cfg.Format != "" {
		if formatter, err = report.NewFormatter(cfg.Format); err != nil {
			return err
		}
	}

	c, err := newConductor(cmd, cfg)
	if err != nil {
		return err
	}

	if cfg.OutputFile != "" {
		c.Output = ghoutput.NewFileSink(cfg.OutputFile)
	}

	if cfg.GitHubRelease {
		if cfg.GitHubToken == "" {
			return fmt.Errorf("GitHub token required for --github-release. Set GITHUB_TOKEN or use --github-token flag")
		}
		c.GitHub = releaser.NewGitHub(cfg.GitHubToken)
	}

	if cfg.Confirm {
		c.Confirm = confirmRelease(cmd)
	}

	result, err := c.Run(ctx, cfg.ConductorOptions())
	if err != nil {
		return err
	}

	printStatus(cmd, result, cfg.Verbose)

	if formatter != nil {
		output, err := formatter.FormatReleaseResult(result)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
	}

	return nil
}

// printStatus writes the one-line outcome of a run.
func printStatus(cmd *cobra.Command, result *model.ReleaseResult, verbose bool) {
	out := cmd.OutOrStdout()
	st := newStyler(out)

	switch result.Outcome {
	case model.OutcomeAlreadyTagged:
		fmt.Fprintln(out, st.warn("Current commit is already tagged!"))
	case model.OutcomeSkipped:
		if result.Reason == conductor.ReasonDeclined {
			fmt.Fprintln(out, st.warn("Release cancelled"))
		} else {
			fmt.Fprintln(out, st.warn("Skipping release due to commit message!"))
		}
	case model.OutcomeDryRun:
		fmt.Fprintf(out, "%s %s\n", st.info("Would create new tag:"), result.Version)
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n\n", result.Notes)
		}
	case model.OutcomeReleased:
		fmt.Fprintf(out, "%s %s\n", st.success("Created new tag:"), result.Version)
		if result.GitHubReleaseURL != "" {
			fmt.Fprintf(out, "%s %s\n", st.success("Created GitHub release:"), result.GitHubReleaseURL)
		}
	}
}
