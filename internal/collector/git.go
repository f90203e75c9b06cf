package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/grokify/calverrelease/pkg/model"
)

// GitCollector implements Collector for a local repository using go-git.
type GitCollector struct {
	path string
	repo *git.Repository
}

// NewGitCollector opens the repository containing path.
func NewGitCollector(path string) (*GitCollector, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	return NewGitCollectorFromRepo(path, repo), nil
}

// NewGitCollectorFromRepo wraps an already opened repository.
func NewGitCollectorFromRepo(path string, repo *git.Repository) *GitCollector {
	return &GitCollector{path: path, repo: repo}
}

// Repository returns the underlying go-git repository.
func (c *GitCollector) Repository() *git.Repository {
	return c.repo
}

// HeadCommit returns the commit HEAD points at.
func (c *GitCollector) HeadCommit(ctx context.Context) (*model.Commit, error) {
	commit, err := c.headCommit()
	if err != nil {
		return nil, err
	}
	mc := convertCommit(commit)
	return &mc, nil
}

// IsHeadTagged reports whether one or more tags point at HEAD.
func (c *GitCollector) IsHeadTagged(ctx context.Context) (bool, error) {
	head, err := c.repo.Head()
	if err != nil {
		return false, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	tags, err := c.listTags(ctx)
	if err != nil {
		return false, err
	}

	for _, t := range tags {
		if t.Hash == head.Hash().String() {
			return true, nil
		}
	}
	return false, nil
}

// LatestTag returns the tag whose commit has the latest commit time.
func (c *GitCollector) LatestTag(ctx context.Context) (*model.Tag, error) {
	tags, err := c.listTags(ctx)
	if err != nil {
		return nil, err
	}
	return LatestByTime(tags), nil
}

// CommitsSince returns commits reachable from HEAD and not from tag.
func (c *GitCollector) CommitsSince(ctx context.Context, tag *model.Tag) ([]model.Commit, error) {
	head, err := c.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	// Build set of commits reachable from the tag
	excluded := make(map[plumbing.Hash]bool)
	if tag != nil {
		tagIter, err := c.repo.Log(&git.LogOptions{From: plumbing.NewHash(tag.Hash)})
		if err != nil {
			return nil, fmt.Errorf("failed to get commit log for %s: %w", tag.Name, err)
		}
		err = tagIter.ForEach(func(commit *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			excluded[commit.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to iterate commits for %s: %w", tag.Name, err)
		}
	}

	headIter, err := c.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}

	var commits []model.Commit
	err = headIter.ForEach(func(commit *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Don't stop at the first excluded commit; merges can
		// bring in newer commits on another parent.
		if excluded[commit.Hash] {
			return nil
		}
		commits = append(commits, convertCommit(commit))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	return commits, nil
}

// RemoteURL returns the first URL configured for the named remote.
func (c *GitCollector) RemoteURL(ctx context.Context, name string) (string, error) {
	remote, err := c.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}

func (c *GitCollector) headCommit() (*object.Commit, error) {
	head, err := c.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	commit, err := c.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit: %w", err)
	}
	return commit, nil
}

// listTags returns all tags that resolve to a commit, sorted by name.
func (c *GitCollector) listTags(ctx context.Context) ([]model.Tag, error) {
	iter, err := c.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var tags []model.Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		tag, ok, err := c.resolveTag(ref)
		if err != nil {
			return err
		}
		if ok {
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

// resolveTag peels a tag reference to its commit. Tags pointing at
// trees or blobs are ignored.
func (c *GitCollector) resolveTag(ref *plumbing.Reference) (model.Tag, bool, error) {
	tag := model.Tag{Name: ref.Name().Short()}

	var commit *object.Commit
	tagObj, err := c.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		tag.Annotated = true
		commit, err = tagObj.Commit()
		if errors.Is(err, object.ErrUnsupportedObject) {
			return tag, false, nil
		}
		if err != nil {
			return tag, false, fmt.Errorf("failed to resolve tag %s: %w", tag.Name, err)
		}
	case errors.Is(err, plumbing.ErrObjectNotFound):
		// lightweight tag
		commit, err = c.repo.CommitObject(ref.Hash())
		if errors.Is(err, plumbing.ErrObjectNotFound) || errors.Is(err, object.ErrUnsupportedObject) {
			return tag, false, nil
		}
		if err != nil {
			return tag, false, fmt.Errorf("failed to resolve tag %s: %w", tag.Name, err)
		}
	default:
		return tag, false, fmt.Errorf("failed to read tag %s: %w", tag.Name, err)
	}

	tag.Hash = commit.Hash.String()
	tag.Time = commit.Committer.When
	return tag, true, nil
}

func convertCommit(c *object.Commit) model.Commit {
	return model.Commit{
		Hash: c.Hash.String(),
		Author: model.Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Committer: model.Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When,
		},
		Message: c.Message,
	}
}
