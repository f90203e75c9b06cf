// Package releaser publishes release tags.
package releaser

import (
	"context"

	"github.com/grokify/calverrelease/pkg/model"
)

// Releaser defines the interface for creating and publishing tags.
type Releaser interface {
	// CreateTag creates an annotated tag in the local repository.
	CreateTag(ctx context.Context, req *model.TagRequest) error

	// PushTag pushes a tag to the named remote.
	PushTag(ctx context.Context, remote, tagName string) error
}

// GitHubPublisher creates GitHub releases for pushed tags.
type GitHubPublisher interface {
	// CreateRelease creates a new release for a repository.
	CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error)
}

// NewGitHub creates a new GitHub release publisher with the given token.
func NewGitHub(token string) GitHubPublisher {
	return NewGitHubReleaser(token)
}
