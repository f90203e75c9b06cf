// Package collector reads tag and commit state from a git repository.
package collector

import (
	"context"

	"github.com/grokify/calverrelease/pkg/model"
)

// Collector defines the interface for reading repository state.
type Collector interface {
	// HeadCommit returns the commit HEAD points at.
	HeadCommit(ctx context.Context) (*model.Commit, error)

	// IsHeadTagged reports whether one or more tags point at HEAD.
	IsHeadTagged(ctx context.Context) (bool, error)

	// LatestTag returns the tag whose commit has the latest commit time,
	// or nil if the repository has no tags.
	LatestTag(ctx context.Context) (*model.Tag, error)

	// CommitsSince returns commits reachable from HEAD but not from tag,
	// newest first. A nil tag returns the whole history of HEAD.
	CommitsSince(ctx context.Context, tag *model.Tag) ([]model.Commit, error)

	// RemoteURL returns the first URL configured for the named remote.
	RemoteURL(ctx context.Context, name string) (string, error)
}

// NewGit opens the repository at path and returns a go-git backed collector.
func NewGit(path string) (Collector, error) {
	return NewGitCollector(path)
}

// LatestByTime returns the tag with the greatest commit time. Tags are
// expected in a stable order; on equal times the last one wins. Returns nil
// for an empty slice.
func LatestByTime(tags []model.Tag) *model.Tag {
	var latest *model.Tag
	for i := range tags {
		if latest == nil || !tags[i].Time.Before(latest.Time) {
			latest = &tags[i]
		}
	}
	if latest == nil {
		return nil
	}
	t := *latest
	return &t
}
