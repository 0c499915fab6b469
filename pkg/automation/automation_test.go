// Test Type: Business Logic Test
// Description: Automated rollup runs against local template and project repositories

package automation_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/restamp/pkg/automation"
	"github.com/arthur-debert/restamp/pkg/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func commitAll(t *testing.T, repo *git.Repository, message string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Template Dev",
			Email: "dev@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

// newTemplateRepo builds a committed template working copy. The cloned
// copy's origin is a local path, so the template pins git_remote
// instead of relying on host detection.
func newTemplateRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"restamp.yaml":       "git_remote: github\ndefault_context:\n  project_name: demo\n",
		"template/README.md": "# {{.project_name}}\n",
	})
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitAll(t, repo, "template skeleton")
	return dir, repo
}

// newProjectRemote builds a bare repository seeded with one commit, so
// it can be cloned like a hosted project.
func newProjectRemote(t *testing.T) string {
	t.Helper()
	bareDir := t.TempDir()
	_, err := git.PlainInit(bareDir, true)
	require.NoError(t, err)

	seedDir := t.TempDir()
	seedRepo, err := git.PlainInit(seedDir, false)
	require.NoError(t, err)
	writeTree(t, seedDir, map[string]string{
		"app.py": "print('hi')\n",
	})
	commitAll(t, seedRepo, "project skeleton")
	_, err = seedRepo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bareDir},
	})
	require.NoError(t, err)
	require.NoError(t, seedRepo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{"refs/heads/master:refs/heads/master"},
	}))
	return bareDir
}

func branchCommit(t *testing.T, bareDir, branch string) *object.Commit {
	t.Helper()
	repo, err := git.PlainOpen(bareDir)
	require.NoError(t, err)
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	return commit
}

func fileContents(t *testing.T, commit *object.Commit, path string) string {
	t.Helper()
	file, err := commit.File(path)
	require.NoError(t, err)
	contents, err := file.Contents()
	require.NoError(t, err)
	return contents
}

func TestRun_CommitsAndPushesRollupChanges(t *testing.T) {
	templateDir, _ := newTemplateRepo(t)
	projectRemote := newProjectRemote(t)

	result, err := automation.Run(automation.Options{
		TemplateURL: templateDir,
		ProjectURL:  projectRemote,
		Author:      "CI Bot <ci@example.com>",
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	require.NotEmpty(t, result.Commit)
	assert.Equal(t, "master", result.Branch)
	require.NotNil(t, result.Rollup)

	commit := branchCommit(t, projectRemote, "master")
	assert.Equal(t, result.Commit, commit.Hash.String())
	assert.Equal(t, "CI Bot", commit.Author.Name)
	assert.Equal(t, "ci@example.com", commit.Author.Email)
	assert.Contains(t, commit.Message, "Scheduled template update")
	assert.Contains(t, commit.Message, "* template ref: master")
	assert.Contains(t, commit.Message, "* template commit: ")

	// The rendered file was pushed; the project's own file survived.
	assert.Equal(t, "# demo\n", fileContents(t, commit, "README.md"))
	assert.Equal(t, "print('hi')\n", fileContents(t, commit, "app.py"))
}

func TestRun_InSyncProjectPushesNothing(t *testing.T) {
	templateDir, _ := newTemplateRepo(t)
	projectRemote := newProjectRemote(t)

	opts := automation.Options{
		TemplateURL: templateDir,
		ProjectURL:  projectRemote,
	}
	first, err := automation.Run(opts)
	require.NoError(t, err)
	require.True(t, first.Changed)

	second, err := automation.Run(opts)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Empty(t, second.Commit)

	// The remote branch still points at the first run's commit.
	commit := branchCommit(t, projectRemote, "master")
	assert.Equal(t, first.Commit, commit.Hash.String())
}

func TestRun_PushesToConfiguredBranch(t *testing.T) {
	templateDir, templateRepo := newTemplateRepo(t)
	projectRemote := newProjectRemote(t)

	_, err := automation.Run(automation.Options{
		TemplateURL: templateDir,
		ProjectURL:  projectRemote,
	})
	require.NoError(t, err)

	// The template moves on; the next update lands on its own branch.
	writeTree(t, templateDir, map[string]string{
		"template/README.md": "# {{.project_name}} v2\n",
	})
	commitAll(t, templateRepo, "update readme")

	result, err := automation.Run(automation.Options{
		TemplateURL: templateDir,
		ProjectURL:  projectRemote,
		Branch:      "template-update",
	})
	require.NoError(t, err)
	require.True(t, result.Changed)
	assert.Equal(t, "template-update", result.Branch)

	commit := branchCommit(t, projectRemote, "template-update")
	assert.Equal(t, result.Commit, commit.Hash.String())
	assert.Equal(t, "# demo v2\n", fileContents(t, commit, "README.md"))

	// Default author applies when none is given.
	assert.Equal(t, "restamp", commit.Author.Name)
	assert.Equal(t, "restamp@localhost", commit.Author.Email)
}

func TestRun_ExtraContextFlowsIntoRollup(t *testing.T) {
	templateDir, _ := newTemplateRepo(t)
	projectRemote := newProjectRemote(t)

	result, err := automation.Run(automation.Options{
		TemplateURL:  templateDir,
		ProjectURL:   projectRemote,
		ExtraContext: map[string]string{"project_name": "renamed"},
	})
	require.NoError(t, err)
	require.True(t, result.Changed)

	commit := branchCommit(t, projectRemote, "master")
	assert.Equal(t, "# renamed\n", fileContents(t, commit, "README.md"))
}

func TestRun_CloneFailureIsReported(t *testing.T) {
	templateDir, _ := newTemplateRepo(t)

	_, err := automation.Run(automation.Options{
		TemplateURL: templateDir,
		ProjectURL:  filepath.Join(t.TempDir(), "does-not-exist"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGitClone))
}

func TestRun_MissingURLsAreRejected(t *testing.T) {
	_, err := automation.Run(automation.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
