package model

import "time"

// Outcome is the terminal state of a release run.
type Outcome string

const (
	OutcomeAlreadyTagged Outcome = "already_tagged"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeDryRun        Outcome = "dry_run"
	OutcomeReleased      Outcome = "released"
)

// ReleaseResult contains the results of a single release run.
type ReleaseResult struct {
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp"`
	RepoPath         string    `json:"repoPath" yaml:"repoPath"`
	Outcome          Outcome   `json:"outcome" yaml:"outcome"`
	Reason           string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	DryRun           bool      `json:"dryRun" yaml:"dryRun"`
	HeadCommit       string    `json:"headCommit,omitempty" yaml:"headCommit,omitempty"`
	PreviousTag      string    `json:"previousTag,omitempty" yaml:"previousTag,omitempty"`
	Version          string    `json:"version,omitempty" yaml:"version,omitempty"`
	Commits          []string  `json:"commits,omitempty" yaml:"commits,omitempty"`
	Notes            string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Pushed           bool      `json:"pushed" yaml:"pushed"`
	OutputWritten    bool      `json:"outputWritten" yaml:"outputWritten"`
	GitHubReleaseURL string    `json:"githubReleaseUrl,omitempty" yaml:"githubReleaseUrl,omitempty"`
}

// Released reports whether the run produced a version, either by creating
// the tag or by computing it in dry-run mode.
func (r *ReleaseResult) Released() bool {
	return r != nil && (r.Outcome == OutcomeReleased || r.Outcome == OutcomeDryRun)
}

// Decision summarizes the result as a ReleaseDecision.
func (r *ReleaseResult) Decision() ReleaseDecision {
	return ReleaseDecision{
		Skip:          r.Outcome == OutcomeSkipped,
		Reason:        r.Reason,
		AlreadyTagged: r.Outcome == OutcomeAlreadyTagged,
		NewVersion:    r.Version,
	}
}
