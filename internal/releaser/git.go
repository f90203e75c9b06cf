package releaser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/grokify/calverrelease/pkg/model"
)

// GitReleaser implements Releaser for a local repository using go-git.
type GitReleaser struct {
	repo     *git.Repository
	auth     func(url string) transport.AuthMethod
	progress io.Writer
}

// GitOption configures a GitReleaser.
type GitOption func(*GitReleaser)

// WithAuth overrides how push credentials are chosen for a remote URL.
func WithAuth(fn func(url string) transport.AuthMethod) GitOption {
	return func(r *GitReleaser) {
		r.auth = fn
	}
}

// WithProgress sends push progress output to w.
func WithProgress(w io.Writer) GitOption {
	return func(r *GitReleaser) {
		r.progress = w
	}
}

// NewGitReleaser creates a releaser for repo.
func NewGitReleaser(repo *git.Repository, opts ...GitOption) *GitReleaser {
	r := &GitReleaser{
		repo: repo,
		auth: AuthMethodFromEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateTag creates an annotated tag. The tagger is taken from the request
// rather than from git config or the process environment.
func (r *GitReleaser) CreateTag(ctx context.Context, req *model.TagRequest) error {
	if req == nil || req.Name == "" {
		return fmt.Errorf("tag name required")
	}
	if req.Target == "" {
		return fmt.Errorf("tag target required")
	}

	_, err := r.repo.CreateTag(req.Name, plumbing.NewHash(req.Target), &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  req.Tagger.Name,
			Email: req.Tagger.Email,
			When:  req.Tagger.When,
		},
		Message: req.Message,
	})
	return err
}

// PushTag pushes refs/tags/<tagName> to the named remote.
func (r *GitReleaser) PushTag(ctx context.Context, remoteName, tagName string) error {
	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}

	var auth transport.AuthMethod
	if urls := remote.Config().URLs; len(urls) > 0 && r.auth != nil {
		auth = r.auth(urls[0])
	}

	ref := plumbing.NewTagReferenceName(tagName)
	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref.String() + ":" + ref.String())},
		Auth:       auth,
		Progress:   r.progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}

	return nil
}
