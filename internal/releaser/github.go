package releaser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/grokify/gogithub/release"
	"github.com/grokify/mogo/net/http/retryhttp"

	"github.com/grokify/calverrelease/pkg/model"
)

// GitHubReleaser implements GitHubPublisher.
type GitHubReleaser struct {
	client *github.Client
}

// GitHubConfig configures the GitHub client.
type GitHubConfig struct {
	// Token is the GitHub token used for the API.
	Token string

	// MaxRetries is the maximum number of retry attempts for API calls.
	// Default is 3.
	MaxRetries int

	// InitialBackoff is the initial backoff duration for retries.
	// Default is 1 second.
	InitialBackoff time.Duration
}

// NewGitHubReleaser creates a new GitHub releaser.
func NewGitHubReleaser(token string) *GitHubReleaser {
	return NewGitHubReleaserWithConfig(GitHubConfig{Token: token})
}

// NewGitHubReleaserWithConfig creates a new GitHub releaser whose HTTP
// client retries rate-limited requests.
func NewGitHubReleaserWithConfig(cfg GitHubConfig) *GitHubReleaser {
	retryOpts := []retryhttp.Option{}

	if cfg.MaxRetries > 0 {
		retryOpts = append(retryOpts, retryhttp.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.InitialBackoff > 0 {
		retryOpts = append(retryOpts, retryhttp.WithInitialBackoff(cfg.InitialBackoff))
	}

	rt := retryhttp.NewWithOptions(retryOpts...)
	client := github.NewClient(&http.Client{Transport: rt})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}

	return NewGitHubReleaserWithClient(client)
}

// NewGitHubReleaserWithClient wraps an existing client.
func NewGitHubReleaserWithClient(client *github.Client) *GitHubReleaser {
	return &GitHubReleaser{client: client}
}

// CreateRelease creates a new release for a repository.
func (r *GitHubReleaser) CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error) {
	if req.Repo.IsZero() {
		return nil, fmt.Errorf("repository owner and name required")
	}

	ghRelease := &github.RepositoryRelease{
		TagName:    github.Ptr(req.TagName),
		Name:       github.Ptr(req.Name),
		Body:       github.Ptr(req.Body),
		Draft:      github.Ptr(req.Draft),
		Prerelease: github.Ptr(req.Prerelease),
	}

	created, err := release.CreateRelease(ctx, r.client, req.Repo.Owner, req.Repo.Name, ghRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}

	return &model.Release{
		ID:          created.GetID(),
		TagName:     created.GetTagName(),
		Name:        created.GetName(),
		Body:        created.GetBody(),
		Draft:       created.GetDraft(),
		Prerelease:  created.GetPrerelease(),
		CreatedAt:   created.GetCreatedAt().Time,
		PublishedAt: created.GetPublishedAt().Time,
		HTMLURL:     created.GetHTMLURL(),
		Repo:        req.Repo,
	}, nil
}
