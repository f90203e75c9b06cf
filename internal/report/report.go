// Package report renders release run results for humans and machines.
package report

import (
	"fmt"
	"strings"

	"github.com/grokify/calverrelease/pkg/model"
)

// Formatter defines the interface for formatting results.
type Formatter interface {
	// FormatReleaseResult formats a release result.
	FormatReleaseResult(result *model.ReleaseResult) (string, error)
}

// Formats lists the names accepted by NewFormatter.
var Formats = []string{"table", "json", "markdown", "md", "yaml", "csv"}

// NewFormatter returns the formatter for name. An empty name selects the
// table formatter.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "markdown", "md":
		return NewMarkdownFormatter(), nil
	case "yaml", "yml":
		return NewYAMLFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

func outcomeLabel(o model.Outcome) string {
	switch o {
	case model.OutcomeAlreadyTagged:
		return "Already tagged"
	case model.OutcomeSkipped:
		return "Skipped"
	case model.OutcomeDryRun:
		return "Dry run"
	case model.OutcomeReleased:
		return "Released"
	default:
		return string(o)
	}
}

// shortHash abbreviates a commit hash.
func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
