// Package policy decides whether a commit should be released.
package policy

import (
	"fmt"
	"strings"

	"github.com/grokify/calverrelease/pkg/model"
)

// DefaultSkipPatterns are matched against the first line of the HEAD commit
// message when no patterns are configured.
var DefaultSkipPatterns = []string{"[skip release]", "[pre-commit.ci]", "⬆️ Update"}

// Decision is the result of evaluating a commit against the skip patterns.
type Decision struct {
	Skip    bool
	Pattern string
	Reason  string
}

// Engine evaluates skip patterns for release decisions.
type Engine struct {
	patterns []string
}

// NewEngine creates a new policy engine. A nil or empty pattern list selects
// DefaultSkipPatterns; a non-empty list replaces the defaults entirely.
func NewEngine(patterns []string) *Engine {
	if len(patterns) == 0 {
		patterns = DefaultSkipPatterns
	}
	return &Engine{patterns: append([]string(nil), patterns...)}
}

// Patterns returns a copy of the patterns in effect.
func (e *Engine) Patterns() []string {
	return append([]string(nil), e.patterns...)
}

// Evaluate checks the commit's first message line against the patterns.
func (e *Engine) Evaluate(commit *model.Commit) Decision {
	if commit == nil {
		return Decision{}
	}
	subject := FirstLine(commit.Message)
	for _, p := range e.patterns {
		if matches(subject, p) {
			return Decision{
				Skip:    true,
				Pattern: p,
				Reason:  fmt.Sprintf("commit message contains %q", p),
			}
		}
	}
	return Decision{}
}

// ShouldSkip reports whether any pattern is a literal, case-sensitive
// substring of the first line of message.
func ShouldSkip(message string, patterns []string) bool {
	subject := FirstLine(message)
	for _, p := range patterns {
		if matches(subject, p) {
			return true
		}
	}
	return false
}

// FirstLine returns the text before the first newline.
func FirstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}

// An empty pattern would match every commit.
func matches(subject, pattern string) bool {
	return pattern != "" && strings.Contains(subject, pattern)
}
