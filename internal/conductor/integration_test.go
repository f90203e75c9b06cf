package conductor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokify/calverrelease/internal/collector"
	"github.com/grokify/calverrelease/internal/ghoutput"
	"github.com/grokify/calverrelease/internal/releaser"
	"github.com/grokify/calverrelease/internal/testutil"
	"github.com/grokify/calverrelease/pkg/model"
)

func newGitConductor(t *testing.T, repo *testutil.TestRepo) *Conductor {
	t.Helper()

	coll := collector.NewGitCollectorFromRepo(repo.Dir, repo.Repo)
	c := New(coll, releaser.NewGitReleaser(repo.Repo))
	c.Now = func() time.Time { return testNow }
	return c
}

func TestIntegration_FirstReleaseDryRun(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.Commit("Initial commit")

	c := newGitConductor(t, repo)
	outFile := filepath.Join(t.TempDir(), "github_output")
	c.Output = ghoutput.NewFileSink(outFile)

	result, err := c.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeDryRun, result.Outcome)
	assert.Equal(t, "2024.3.0", result.Version)
	assert.Empty(t, result.PreviousTag)
	assert.Equal(t, []string{"Initial commit"}, result.Commits)
	assert.Empty(t, repo.TagNames())

	_, err = os.Stat(outFile)
	assert.True(t, os.IsNotExist(err), "dry run must not write the output file")
}

func TestIntegration_SameMonthIncrement(t *testing.T) {
	repo := testutil.NewRepo(t)
	first := repo.Commit("Initial commit")
	repo.AnnotatedTag("2024.3.0", first)
	repo.Commit("Second commit")

	result, err := newGitConductor(t, repo).Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "2024.3.1", result.Version)
	assert.Equal(t, "2024.3.0", result.PreviousTag)
	assert.Equal(t, []string{"Second commit"}, result.Commits)
}

func TestIntegration_SkipCommit(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.Commit("Initial commit")
	repo.Commit("[skip release] foo")

	result, err := newGitConductor(t, repo).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeSkipped, result.Outcome)
	assert.Empty(t, result.Version)
	assert.Empty(t, repo.TagNames())
}

func TestIntegration_AlreadyTagged(t *testing.T) {
	repo := testutil.NewRepo(t)
	head := repo.Commit("Initial commit")
	repo.LightweightTag("2024.3.0", head)

	result, err := newGitConductor(t, repo).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeAlreadyTagged, result.Outcome)
	assert.Equal(t, []string{"2024.3.0"}, repo.TagNames())
}

func TestIntegration_NotesListCommitsSinceTag(t *testing.T) {
	repo := testutil.NewRepo(t)
	base := repo.Commit("Initial commit")
	repo.LightweightTag("2024.2.3", base)
	repo.Commit("First commit")
	repo.Commit("Second commit\n\nwith a body")

	result, err := newGitConductor(t, repo).Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "2024.3.0", result.Version)
	assert.Contains(t, result.Notes, "- First commit")
	assert.Contains(t, result.Notes, "- Second commit")
	assert.NotContains(t, result.Notes, "Initial commit")
	assert.NotContains(t, result.Notes, "with a body")
	assert.True(t, strings.HasPrefix(result.Notes, "🚀 Release 2024.3.0\n\n"))
}

func TestIntegration_Release(t *testing.T) {
	testutil.RequireGit(t)

	repo := testutil.NewRepo(t)
	first := repo.Commit("Initial commit")
	repo.AnnotatedTag("2024.3.0", first)
	head := repo.CommitAs("Add widgets", "Jane Doe", "jane@example.com", time.Date(2024, time.March, 14, 8, 0, 0, 0, time.UTC))
	bare := repo.AddBareRemote("origin")

	c := newGitConductor(t, repo)
	outFile := filepath.Join(t.TempDir(), "github_output")
	require.NoError(t, os.WriteFile(outFile, []byte("existing=1\n"), 0o644))
	c.Output = ghoutput.NewFileSink(outFile)

	result, err := c.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeReleased, result.Outcome)
	assert.Equal(t, "2024.3.1", result.Version)
	assert.True(t, result.Pushed)
	assert.True(t, result.OutputWritten)

	ref, err := repo.Repo.Tag("2024.3.1")
	require.NoError(t, err)
	tagObj, err := repo.Repo.TagObject(ref.Hash())
	require.NoError(t, err)
	assert.Equal(t, head, tagObj.Target)
	assert.Equal(t, "Jane Doe", tagObj.Tagger.Name)
	assert.Equal(t, "jane@example.com", tagObj.Tagger.Email)
	assert.True(t, strings.HasPrefix(tagObj.Message, "Release 2024.3.1\n\n🚀 Release 2024.3.1"))

	_, err = bare.Reference(plumbing.NewTagReferenceName("2024.3.1"), false)
	assert.NoError(t, err, "tag should be pushed to origin")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "existing=1\nversion=2024.3.1\n", string(data))

	// A second run sees the new tag on HEAD.
	again, err := c.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeAlreadyTagged, again.Outcome)
}

func TestIntegration_MissingRemote(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.Commit("Initial commit")

	_, err := newGitConductor(t, repo).Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push tag")
}
