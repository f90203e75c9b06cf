// Package notes renders the release notes stored in the annotated tag.
package notes

import (
	"strings"

	"github.com/grokify/calverrelease/pkg/model"
)

// DefaultFooter is appended to the notes when no footer is configured.
const DefaultFooter = "\n\n🙏 Thank you for using this project! Please report any issues " +
	"or feedback on the GitHub repository."

const (
	header = "🚀 Release "
	intro  = "📝 This release includes the following changes:\n\n"
)

// Format builds the release notes body: header, intro, one bullet per
// subject in the given order, then footer verbatim.
func Format(subjects []string, version, footer string) string {
	var sb strings.Builder

	sb.WriteString(header)
	sb.WriteString(version)
	sb.WriteString("\n\n")
	sb.WriteString(intro)

	for i, s := range subjects {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(s)
	}

	sb.WriteString(footer)
	return sb.String()
}

// TagMessage returns the annotated tag message for a release.
func TagMessage(version, notes string) string {
	return "Release " + version + "\n\n" + notes
}

// Subjects returns the first message line of each commit, preserving order.
func Subjects(commits []model.Commit) []string {
	subjects := make([]string, 0, len(commits))
	for _, c := range commits {
		subjects = append(subjects, c.Subject())
	}
	return subjects
}
