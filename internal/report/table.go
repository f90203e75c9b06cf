package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/grokify/calverrelease/pkg/model"
)

// TableFormatter formats results as text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatReleaseResult formats a release result as a text table.
func (f *TableFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	var sb strings.Builder

	if result.DryRun {
		sb.WriteString("Release Dry Run Results")
	} else {
		sb.WriteString("Release Results")
	}
	sb.WriteString(fmt.Sprintf(" (%s)\n", result.Timestamp.Format(time.RFC3339)))

	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"Field", "Value"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Repository", result.RepoPath})
	table.Append([]string{"Outcome", outcomeLabel(result.Outcome)})
	if result.Reason != "" {
		table.Append([]string{"Reason", result.Reason})
	}
	if result.HeadCommit != "" {
		table.Append([]string{"Commit", shortHash(result.HeadCommit)})
	}
	if result.Version != "" {
		previous := result.PreviousTag
		if previous == "" {
			previous = "-"
		}
		table.Append([]string{"Previous", previous})
		table.Append([]string{"Version", result.Version})
		table.Append([]string{"Commits", fmt.Sprintf("%d", len(result.Commits))})
		table.Append([]string{"Pushed", fmt.Sprintf("%t", result.Pushed)})
	}
	if result.GitHubReleaseURL != "" {
		table.Append([]string{"GitHub Release", result.GitHubReleaseURL})
	}
	table.Render()

	if len(result.Commits) > 0 {
		sb.WriteString("\nChanges:\n")
		for _, c := range result.Commits {
			sb.WriteString(fmt.Sprintf("  - %s\n", truncate(c, 72)))
		}
	}

	return sb.String(), nil
}
