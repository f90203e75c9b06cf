package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/grokify/calverrelease/pkg/model"
)

// CSVFormatter formats results as a single CSV record with a header row.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// FormatReleaseResult formats a release result as CSV.
func (f *CSVFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Timestamp", "Repository", "Outcome", "Reason", "Head", "Previous Tag", "Version", "Commits", "Pushed", "Release URL"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	row := []string{
		result.Timestamp.Format(time.RFC3339),
		result.RepoPath,
		string(result.Outcome),
		result.Reason,
		result.HeadCommit,
		result.PreviousTag,
		result.Version,
		strings.Join(result.Commits, "; "),
		fmt.Sprintf("%t", result.Pushed),
		result.GitHubReleaseURL,
	}
	if err := w.Write(row); err != nil {
		return "", err
	}

	w.Flush()
	return buf.String(), w.Error()
}
