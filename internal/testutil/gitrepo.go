// Package testutil provides helpers for building throwaway git repositories in tests.
package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Default identity used for test commits.
const (
	UserName  = "Test User"
	UserEmail = "test@example.com"
)

// TestRepo is a non-bare repository in a temporary directory.
type TestRepo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository

	commits int
	clock   time.Time
}

// NewRepo initializes an empty repository in t.TempDir().
func NewRepo(t *testing.T) *TestRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return &TestRepo{
		t:     t,
		Dir:   dir,
		Repo:  repo,
		clock: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit creates a commit with a fresh file, one minute after the previous
// commit, and returns its hash.
func (r *TestRepo) Commit(message string) plumbing.Hash {
	r.t.Helper()
	r.clock = r.clock.Add(time.Minute)
	return r.CommitAt(message, r.clock)
}

// CommitAt creates a commit with the given committer time.
func (r *TestRepo) CommitAt(message string, when time.Time) plumbing.Hash {
	r.t.Helper()
	return r.CommitAs(message, UserName, UserEmail, when)
}

// CommitAs creates a commit authored and committed by name/email at when.
func (r *TestRepo) CommitAs(message, name, email string, when time.Time) plumbing.Hash {
	r.t.Helper()

	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)

	r.commits++
	filename := fmt.Sprintf("file%d.txt", r.commits)
	err = os.WriteFile(filepath.Join(r.Dir, filename), []byte(message), 0o644)
	require.NoError(r.t, err)

	_, err = wt.Add(filename)
	require.NoError(r.t, err)

	sig := &object.Signature{Name: name, Email: email, When: when}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	require.NoError(r.t, err)

	return hash
}

// Head returns the hash HEAD points at.
func (r *TestRepo) Head() plumbing.Hash {
	r.t.Helper()
	head, err := r.Repo.Head()
	require.NoError(r.t, err)
	return head.Hash()
}

// LightweightTag creates a lightweight tag at hash.
func (r *TestRepo) LightweightTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

// AnnotatedTag creates an annotated tag at hash.
func (r *TestRepo) AnnotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  UserName,
			Email: UserEmail,
			When:  r.clock,
		},
		Message: "Release " + name,
	})
	require.NoError(r.t, err)
}

// TagNames returns the names of all tags in the repository, sorted.
func (r *TestRepo) TagNames() []string {
	r.t.Helper()
	return TagNames(r.t, r.Repo)
}

// AddBareRemote creates a bare repository in a temporary directory and
// registers it as remote name. It returns the bare repository.
func (r *TestRepo) AddBareRemote(name string) *git.Repository {
	r.t.Helper()

	dir := r.t.TempDir()
	bare, err := git.PlainInit(dir, true)
	require.NoError(r.t, err)

	_, err = r.Repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{dir},
	})
	require.NoError(r.t, err)

	return bare
}

// AddRemoteURL registers a remote without creating anything behind it.
func (r *TestRepo) AddRemoteURL(name, url string) {
	r.t.Helper()
	_, err := r.Repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	require.NoError(r.t, err)
}

// TagNames returns the names of all tags in repo, sorted.
func TagNames(t *testing.T, repo *git.Repository) []string {
	t.Helper()

	iter, err := repo.Tags()
	require.NoError(t, err)

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	require.NoError(t, err)

	sort.Strings(names)
	return names
}

// RequireGit skips the test when the git binary is unavailable. go-git
// pushes to local file remotes through git-receive-pack.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}
