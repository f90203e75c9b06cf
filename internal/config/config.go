// Package config resolves calverrelease settings from defaults, a config
// file, the environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/grokify/calverrelease/internal/conductor"
	"github.com/grokify/calverrelease/internal/ghoutput"
	"github.com/grokify/calverrelease/internal/notes"
	"github.com/grokify/calverrelease/internal/policy"
	"github.com/grokify/calverrelease/pkg/model"
)

// EnvPrefix is prepended to setting names to form environment variables,
// e.g. CALVER_SKIP_PATTERNS.
const EnvPrefix = "CALVER"

// ConfigName is the config file name searched for, without extension.
const ConfigName = ".calverrelease"

// Setting keys, shared by the config file and CALVER_* environment variables.
const (
	KeyRepoPath      = "repo-path"
	KeySkipPatterns  = "skip-patterns"
	KeyFooter        = "footer"
	KeyDryRun        = "dry-run"
	KeyTagPrefix     = "tag-prefix"
	KeyRemote        = "remote"
	KeyOutputFile    = "output-file"
	KeyFormat        = "format"
	KeyVerbose       = "verbose"
	KeyConfirm       = "confirm"
	KeyGitHubRelease = "github-release"
	KeyGitHubToken   = "github-token"
	KeyGitHubRepo    = "github-repo"
)

// Flag names that differ from their setting key.
const (
	FlagSkipPattern = "skip-pattern"
	FlagConfig      = "config"
)

// Config holds the resolved settings for a run.
type Config struct {
	RepoPath         string
	SkipPatterns     []string
	Footer           string
	DryRun           bool
	TagPrefix        string
	Remote           string
	OutputFile       string
	Format           string
	Verbose          bool
	Confirm          bool
	GitHubRelease    bool
	GitHubToken      string
	GitHubRepository string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		RepoPath:     ".",
		SkipPatterns: append([]string(nil), policy.DefaultSkipPatterns...),
		Footer:       notes.DefaultFooter,
		Remote:       conductor.DefaultRemote,
	}
}

// ConductorOptions converts the configuration into release run options.
func (c Config) ConductorOptions() conductor.Options {
	return conductor.Options{
		RepoPath:     c.RepoPath,
		SkipPatterns: c.SkipPatterns,
		Footer:       c.Footer,
		DryRun:       c.DryRun,
		TagPrefix:    c.TagPrefix,
		Remote:       c.Remote,
		GitHubRepo:   model.ParseRepoRef(c.GitHubRepository),
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an explicit config file. It must exist.
	ConfigFile string

	// SearchPaths are directories searched for ConfigName when ConfigFile
	// is empty. A missing file there is not an error.
	SearchPaths []string

	// Flags, if set, overrides every other layer for flags that were
	// changed on the command line.
	Flags *pflag.FlagSet
}

// AddFlags registers the command line flags read by Load.
func AddFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(FlagConfig, "", "config file (default is $HOME/"+ConfigName+".yaml)")
	fs.String(KeyRepoPath, def.RepoPath, "Path to the git repository")
	fs.StringArray(FlagSkipPattern, nil, "Skip the release when the HEAD commit subject contains this text (repeatable, replaces defaults)")
	fs.String(KeyFooter, "", "Footer appended to the release notes")
	fs.Bool(KeyDryRun, false, "Compute the next version without tagging or pushing")
	fs.String(KeyTagPrefix, "", "Prefix for tag names, e.g. v")
	fs.String(KeyRemote, def.Remote, "Remote to push the tag to")
	fs.String(KeyOutputFile, "", "File to append version=<v> to (default $"+ghoutput.EnvVar+")")
	fs.String(KeyFormat, "", "Report format: table, json, markdown, yaml")
	fs.Bool(KeyVerbose, false, "Enable verbose output")
	fs.Bool(KeyConfirm, false, "Ask for confirmation before tagging")
	fs.Bool(KeyGitHubRelease, false, "Create a GitHub release for the pushed tag")
	fs.String(KeyGitHubToken, "", "GitHub token (or set GITHUB_TOKEN env var)")
	fs.String(KeyGitHubRepo, "", "GitHub repository in owner/repo format (default from the remote URL)")
}

// Load resolves the configuration. Later layers win: defaults, config file,
// environment, changed flags.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyRepoPath, def.RepoPath)
	v.SetDefault(KeyRemote, def.Remote)

	configFile := opts.ConfigFile
	if configFile == "" && opts.Flags != nil {
		configFile, _ = opts.Flags.GetString(FlagConfig)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else if len(opts.SearchPaths) > 0 {
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
		v.SetConfigName(ConfigName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyOutputFile, ghoutput.EnvVar)
	_ = v.BindEnv(KeyGitHubToken, "GITHUB_TOKEN")
	_ = v.BindEnv(KeyGitHubRepo, "GITHUB_REPOSITORY")

	cfg := Config{
		RepoPath:         v.GetString(KeyRepoPath),
		SkipPatterns:     toPatterns(v.Get(KeySkipPatterns)),
		Footer:           v.GetString(KeyFooter),
		DryRun:           toBool(v.Get(KeyDryRun)),
		TagPrefix:        v.GetString(KeyTagPrefix),
		Remote:           v.GetString(KeyRemote),
		OutputFile:       v.GetString(KeyOutputFile),
		Format:           v.GetString(KeyFormat),
		Verbose:          toBool(v.Get(KeyVerbose)),
		Confirm:          toBool(v.Get(KeyConfirm)),
		GitHubRelease:    toBool(v.Get(KeyGitHubRelease)),
		GitHubToken:      v.GetString(KeyGitHubToken),
		GitHubRepository: v.GetString(KeyGitHubRepo),
	}

	if opts.Flags != nil {
		if err := applyFlags(&cfg, opts.Flags); err != nil {
			return Config{}, err
		}
	}

	if len(cfg.SkipPatterns) == 0 {
		cfg.SkipPatterns = def.SkipPatterns
	}
	if cfg.Footer == "" {
		cfg.Footer = def.Footer
	}
	if cfg.RepoPath == "" {
		cfg.RepoPath = def.RepoPath
	}
	if cfg.Remote == "" {
		cfg.Remote = def.Remote
	}

	return cfg, nil
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetBool(name)
		}
	}

	str(KeyRepoPath, &cfg.RepoPath)
	str(KeyFooter, &cfg.Footer)
	str(KeyTagPrefix, &cfg.TagPrefix)
	str(KeyRemote, &cfg.Remote)
	str(KeyOutputFile, &cfg.OutputFile)
	str(KeyFormat, &cfg.Format)
	str(KeyGitHubToken, &cfg.GitHubToken)
	str(KeyGitHubRepo, &cfg.GitHubRepository)
	boolean(KeyDryRun, &cfg.DryRun)
	boolean(KeyVerbose, &cfg.Verbose)
	boolean(KeyConfirm, &cfg.Confirm)
	boolean(KeyGitHubRelease, &cfg.GitHubRelease)

	if err == nil && fs.Changed(FlagSkipPattern) {
		var patterns []string
		patterns, err = fs.GetStringArray(FlagSkipPattern)
		if err == nil {
			cfg.SkipPatterns = nil
			for _, p := range patterns {
				if p != "" {
					cfg.SkipPatterns = append(cfg.SkipPatterns, p)
				}
			}
		}
	}

	if err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	return nil
}

// toPatterns accepts a comma separated string (environment) or a list
// (config file).
func toPatterns(val any) []string {
	switch p := val.(type) {
	case nil:
		return nil
	case string:
		return SplitPatterns(p)
	case []string:
		return cleanPatterns(p)
	case []any:
		patterns := make([]string, 0, len(p))
		for _, item := range p {
			patterns = append(patterns, fmt.Sprint(item))
		}
		return cleanPatterns(patterns)
	default:
		return nil
	}
}

// SplitPatterns splits a comma separated pattern list, trimming whitespace
// and dropping empty items.
func SplitPatterns(s string) []string {
	return cleanPatterns(strings.Split(s, ","))
}

func cleanPatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// toBool treats only "true", in any case, as true. Any other string is
// false rather than an error.
func toBool(val any) bool {
	switch b := val.(type) {
	case bool:
		return b
	case string:
		return ParseBool(b)
	default:
		return false
	}
}

// ParseBool reports whether s is "true", ignoring case and surrounding space.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
