package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"

	"github.com/grokify/calverrelease/internal/notes"
	"github.com/grokify/calverrelease/internal/policy"
)

// clearEnv unsets every variable Load reads so the host environment does
// not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CALVER_REPO_PATH", "CALVER_SKIP_PATTERNS", "CALVER_FOOTER", "CALVER_DRY_RUN",
		"CALVER_TAG_PREFIX", "CALVER_REMOTE", "CALVER_OUTPUT_FILE", "CALVER_FORMAT",
		"CALVER_VERBOSE", "CALVER_CONFIRM", "CALVER_GITHUB_RELEASE", "CALVER_GITHUB_TOKEN",
		"CALVER_GITHUB_REPO", "GITHUB_OUTPUT", "GITHUB_TOKEN", "GITHUB_REPOSITORY",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want %+v", cfg, Default())
	}
	if cfg.DryRun {
		t.Error("DryRun should default to false")
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALVER_SKIP_PATTERNS", "[no-release], [skip-ci] ,,")
	t.Setenv("CALVER_FOOTER", "\n\nbye")
	t.Setenv("CALVER_DRY_RUN", "TRUE")
	t.Setenv("CALVER_TAG_PREFIX", "v")
	t.Setenv("GITHUB_OUTPUT", "/tmp/out")
	t.Setenv("GITHUB_TOKEN", "ghs_token")
	t.Setenv("GITHUB_REPOSITORY", "acme/widgets")

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if want := []string{"[no-release]", "[skip-ci]"}; !reflect.DeepEqual(cfg.SkipPatterns, want) {
		t.Errorf("SkipPatterns = %q, want %q", cfg.SkipPatterns, want)
	}
	if cfg.Footer != "\n\nbye" {
		t.Errorf("Footer = %q", cfg.Footer)
	}
	if !cfg.DryRun {
		t.Error("DryRun should be true")
	}
	if cfg.TagPrefix != "v" {
		t.Errorf("TagPrefix = %q", cfg.TagPrefix)
	}
	if cfg.OutputFile != "/tmp/out" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
	if cfg.GitHubToken != "ghs_token" {
		t.Errorf("GitHubToken = %q", cfg.GitHubToken)
	}
	if got := cfg.ConductorOptions().GitHubRepo.FullName(); got != "acme/widgets" {
		t.Errorf("GitHubRepo = %q", got)
	}
}

func TestLoad_DryRunValues(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"True", true},
		{" TRUE ", true},
		{"false", false},
		{"yes", false},
		{"1", false},
		{"not-a-bool", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CALVER_DRY_RUN", tt.value)

			cfg, err := Load(LoadOptions{})
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.DryRun != tt.expected {
				t.Errorf("DryRun = %v, want %v", cfg.DryRun, tt.expected)
			}
		})
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALVER_SKIP_PATTERNS", " , ")

	cfg, err := Load(LoadOptions{Flags: newFlags(t, "--footer", "")})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(cfg.SkipPatterns, policy.DefaultSkipPatterns) {
		t.Errorf("SkipPatterns = %q, want defaults", cfg.SkipPatterns)
	}
	if cfg.Footer != notes.DefaultFooter {
		t.Errorf("Footer = %q, want default", cfg.Footer)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "calver.yaml", `
skip-patterns:
  - "[no-release]"
footer: "from file"
remote: upstream
tag-prefix: v
dry-run: true
format: json
`)

	cfg, err := Load(LoadOptions{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if want := []string{"[no-release]"}; !reflect.DeepEqual(cfg.SkipPatterns, want) {
		t.Errorf("SkipPatterns = %q, want %q", cfg.SkipPatterns, want)
	}
	if cfg.Footer != "from file" || cfg.Remote != "upstream" || cfg.TagPrefix != "v" || cfg.Format != "json" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.DryRun {
		t.Error("DryRun should be true")
	}
}

func TestLoad_ConfigFileFromSearchPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, ConfigName+".yaml", "remote: mirror\n")

	cfg, err := Load(LoadOptions{SearchPaths: []string{filepath.Dir(path)}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Remote != "mirror" {
		t.Errorf("Remote = %q, want mirror", cfg.Remote)
	}

	cfg, err = Load(LoadOptions{SearchPaths: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("missing searched config should not fail: %v", err)
	}
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want origin", cfg.Remote)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "calver.yaml", "footer: file\nremote: file-remote\ntag-prefix: f\n")
	t.Setenv("CALVER_FOOTER", "env")
	t.Setenv("CALVER_REMOTE", "env-remote")
	t.Setenv("CALVER_DRY_RUN", "true")

	flags := newFlags(t, "--config", path, "--footer", "flag", "--dry-run=false")

	cfg, err := Load(LoadOptions{Flags: flags})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"flag beats env", cfg.Footer, "flag"},
		{"env beats file", cfg.Remote, "env-remote"},
		{"file beats default", cfg.TagPrefix, "f"},
		{"flag bool beats env", cfg.DryRun, false},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.expected)
		}
	}
}

func TestLoad_SkipPatternFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALVER_SKIP_PATTERNS", "[from-env]")

	flags := newFlags(t, "--skip-pattern", "[no-release]", "--skip-pattern", "wip, draft")

	cfg, err := Load(LoadOptions{Flags: flags})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"[no-release]", "wip, draft"}
	if !reflect.DeepEqual(cfg.SkipPatterns, want) {
		t.Errorf("SkipPatterns = %q, want %q", cfg.SkipPatterns, want)
	}
}

func TestSplitPatterns(t *testing.T) {
	tests := map[string][]string{
		"":                         nil,
		"a":                        {"a"},
		"[no-release], [skip-ci]":  {"[no-release]", "[skip-ci]"},
		" a ,, b , ":               {"a", "b"},
		"⬆️ Update,[skip release]": {"⬆️ Update", "[skip release]"},
	}

	for input, expected := range tests {
		if got := SplitPatterns(input); !reflect.DeepEqual(got, expected) {
			t.Errorf("SplitPatterns(%q) = %q, want %q", input, got, expected)
		}
	}
}
