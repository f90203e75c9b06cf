// Package conductor runs a single CalVer release: it decides whether HEAD
// should be released, computes the version and notes, and then publishes the
// tag.
package conductor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/grokify/calverrelease/internal/calver"
	"github.com/grokify/calverrelease/internal/collector"
	"github.com/grokify/calverrelease/internal/ghoutput"
	"github.com/grokify/calverrelease/internal/notes"
	"github.com/grokify/calverrelease/internal/policy"
	"github.com/grokify/calverrelease/internal/releaser"
	"github.com/grokify/calverrelease/pkg/model"
)

// DefaultRemote is the remote tags are pushed to when none is configured.
const DefaultRemote = "origin"

// ReasonDeclined is the skip reason recorded when confirmation is refused.
const ReasonDeclined = "declined"

// ErrNotTerminal is returned by confirmation prompts that cannot ask.
var ErrNotTerminal = errors.New("confirmation requires an interactive terminal")

// ConfirmFunc is asked before any tag is created. Returning false skips the
// release without error.
type ConfirmFunc func(ctx context.Context, plan *Plan) (bool, error)

// Options configures a release run.
type Options struct {
	RepoPath     string
	SkipPatterns []string
	Footer       string
	DryRun       bool
	TagPrefix    string
	Remote       string

	// GitHubRepo is the repository GitHub releases are created in. When zero
	// it is derived from the remote URL.
	GitHubRepo model.RepoRef
}

func (o Options) withDefaults() Options {
	if o.Footer == "" {
		o.Footer = notes.DefaultFooter
	}
	if o.Remote == "" {
		o.Remote = DefaultRemote
	}
	return o
}

// Plan is everything computed for a release before anything is written.
type Plan struct {
	Head     *model.Commit
	Previous *model.Tag
	Version  string
	Commits  []model.Commit
	Notes    string
}

// TagMessage returns the annotated tag message for the plan.
func (p *Plan) TagMessage() string {
	return notes.TagMessage(p.Version, p.Notes)
}

// Conductor orchestrates the release checks and publishing steps.
type Conductor struct {
	Collector collector.Collector
	Releaser  releaser.Releaser

	// GitHub, if set, creates a GitHub release after the tag is pushed.
	GitHub releaser.GitHubPublisher

	// Output, if set, receives version=<v> after a successful release.
	Output ghoutput.Sink

	// Confirm, if set, is asked before the tag is created.
	Confirm ConfirmFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Log receives verbose progress messages. Nil discards them.
	Log io.Writer
}

// New creates a conductor for the given collector and releaser.
func New(coll collector.Collector, rel releaser.Releaser) *Conductor {
	return &Conductor{
		Collector: coll,
		Releaser:  rel,
	}
}

// Run performs one release run and returns its outcome. Already tagged and
// skipped commits are reported in the result, not as errors.
func (c *Conductor) Run(ctx context.Context, opts Options) (*model.ReleaseResult, error) {
	opts = opts.withDefaults()

	result := &model.ReleaseResult{
		Timestamp: c.now(),
		RepoPath:  opts.RepoPath,
		DryRun:    opts.DryRun,
	}

	head, err := c.Collector.HeadCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}
	result.HeadCommit = head.Hash

	tagged, err := c.Collector.IsHeadTagged(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check HEAD tags: %w", err)
	}
	if tagged {
		c.logf("HEAD %s is already tagged\n", head.ShortHash())
		result.Outcome = model.OutcomeAlreadyTagged
		result.Reason = "current commit is already tagged"
		return result, nil
	}

	decision := policy.NewEngine(opts.SkipPatterns).Evaluate(head)
	if decision.Skip {
		c.logf("Skipping %s: %s\n", head.ShortHash(), decision.Reason)
		result.Outcome = model.OutcomeSkipped
		result.Reason = decision.Reason
		return result, nil
	}

	plan, err := c.plan(ctx, head, opts)
	if err != nil {
		return nil, err
	}
	c.fill(result, plan)

	if opts.DryRun {
		c.logf("Dry run: would tag %s as %s\n", head.ShortHash(), plan.Version)
		result.Outcome = model.OutcomeDryRun
		return result, nil
	}

	var ghRepo model.RepoRef
	if c.GitHub != nil {
		ghRepo, err = c.resolveGitHubRepo(ctx, opts)
		if err != nil {
			return nil, err
		}
	}

	if c.Confirm != nil {
		ok, err := c.Confirm(ctx, plan)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm release: %w", err)
		}
		if !ok {
			result.Outcome = model.OutcomeSkipped
			result.Reason = ReasonDeclined
			return result, nil
		}
	}

	// Everything below mutates the repository or the outside world.

	c.logf("Creating tag %s at %s\n", plan.Version, head.ShortHash())
	err = c.Releaser.CreateTag(ctx, &model.TagRequest{
		Name:    plan.Version,
		Target:  head.Hash,
		Message: plan.TagMessage(),
		Tagger: model.Signature{
			Name:  head.Author.Name,
			Email: head.Author.Email,
			When:  c.now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tag %s: %w", plan.Version, err)
	}

	c.logf("Pushing tag %s to %s\n", plan.Version, opts.Remote)
	if err := c.Releaser.PushTag(ctx, opts.Remote, plan.Version); err != nil {
		return nil, fmt.Errorf("failed to push tag %s to %s: %w", plan.Version, opts.Remote, err)
	}
	result.Pushed = true

	if c.Output != nil {
		if err := c.Output.Set("version", plan.Version); err != nil {
			return nil, fmt.Errorf("failed to write version output: %w", err)
		}
		result.OutputWritten = true
	}

	if c.GitHub != nil {
		c.logf("Creating GitHub release %s in %s\n", plan.Version, ghRepo.FullName())
		rel, err := c.GitHub.CreateRelease(ctx, &model.ReleaseRequest{
			Repo:    ghRepo,
			TagName: plan.Version,
			Name:    plan.Version,
			Body:    plan.Notes,
		})
		if err != nil {
			return nil, fmt.Errorf("tag %s was pushed but GitHub release failed: %w", plan.Version, err)
		}
		result.GitHubReleaseURL = rel.HTMLURL
	}

	result.Outcome = model.OutcomeReleased
	return result, nil
}

// Plan computes the next version and notes for HEAD without checking whether
// HEAD is tagged or should be skipped.
func (c *Conductor) Plan(ctx context.Context, opts Options) (*Plan, error) {
	opts = opts.withDefaults()

	head, err := c.Collector.HeadCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}
	return c.plan(ctx, head, opts)
}

func (c *Conductor) plan(ctx context.Context, head *model.Commit, opts Options) (*Plan, error) {
	latest, err := c.Collector.LatestTag(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	if latest != nil {
		c.logf("Latest tag: %s\n", latest.Name)
		if !calver.IsCalVer(latest.Name) {
			c.logf("Latest tag %s is not a calendar version, starting a new series\n", latest.Name)
		}
	}

	version := calver.NextFromTag(latest, c.now(), opts.TagPrefix).String()

	commits, err := c.Collector.CommitsSince(ctx, latest)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	c.logf("%d commits since last release\n", len(commits))

	return &Plan{
		Head:     head,
		Previous: latest,
		Version:  version,
		Commits:  commits,
		Notes:    notes.Format(notes.Subjects(commits), version, opts.Footer),
	}, nil
}

func (c *Conductor) fill(result *model.ReleaseResult, plan *Plan) {
	if plan.Previous != nil {
		result.PreviousTag = plan.Previous.Name
	}
	result.Version = plan.Version
	result.Commits = notes.Subjects(plan.Commits)
	result.Notes = plan.Notes
}

func (c *Conductor) resolveGitHubRepo(ctx context.Context, opts Options) (model.RepoRef, error) {
	if !opts.GitHubRepo.IsZero() {
		return opts.GitHubRepo, nil
	}
	url, err := c.Collector.RemoteURL(ctx, opts.Remote)
	if err != nil {
		return model.RepoRef{}, fmt.Errorf("failed to read remote %s: %w", opts.Remote, err)
	}
	ref, ok := model.ParseRemoteURL(url)
	if !ok {
		return model.RepoRef{}, fmt.Errorf("cannot determine GitHub repository from remote URL %q", url)
	}
	return ref, nil
}

func (c *Conductor) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Conductor) logf(format string, args ...any) {
	if c.Log != nil {
		fmt.Fprintf(c.Log, format, args...)
	}
}
