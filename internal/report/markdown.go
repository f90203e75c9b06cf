package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/grokify/calverrelease/pkg/model"
)

// MarkdownFormatter formats results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatReleaseResult formats a release result as Markdown.
func (f *MarkdownFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	var sb strings.Builder

	if result.DryRun {
		sb.WriteString("# Release Dry Run Results\n\n")
	} else {
		sb.WriteString("# Release Results\n\n")
	}

	sb.WriteString(fmt.Sprintf("**Time:** %s\n\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Outcome:** %s\n\n", outcomeLabel(result.Outcome)))
	if result.Reason != "" {
		sb.WriteString(fmt.Sprintf("**Reason:** *%s*\n\n", result.Reason))
	}
	if result.HeadCommit != "" {
		sb.WriteString(fmt.Sprintf("**Commit:** `%s`\n\n", shortHash(result.HeadCommit)))
	}

	if result.Version == "" {
		return sb.String(), nil
	}

	previous := result.PreviousTag
	if previous == "" {
		previous = "none"
	}
	sb.WriteString("| Previous | Version | Commits | Pushed |\n")
	sb.WriteString("|----------|---------|---------|--------|\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | %d | %t |\n\n",
		previous, result.Version, len(result.Commits), result.Pushed))

	if result.GitHubReleaseURL != "" {
		sb.WriteString(fmt.Sprintf("[GitHub release %s](%s)\n\n", result.Version, result.GitHubReleaseURL))
	}

	if len(result.Commits) > 0 {
		sb.WriteString("## Changes\n\n")
		for _, c := range result.Commits {
			sb.WriteString(fmt.Sprintf("- %s\n", c))
		}
	}

	return sb.String(), nil
}
