// Test Type: Unit Test
// Description: Tests for the restamp command-line interface

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/restamp/pkg/rollup"
)

// execute runs the CLI with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// newTemplateFixture builds a committed template repository so the
// rollup command can read real git metadata.
func newTemplateFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"restamp.yaml":       "default_context:\n  project_name: demo\n",
		"template/README.md": "# {{.project_name}}\n",
	}
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/acme/template.git"},
	})
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	_, err = wt.Commit("template skeleton", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Template Dev",
			Email: "dev@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return dir
}

func TestRollupCmd(t *testing.T) {
	templateDir := newTemplateFixture(t)
	targetDir := t.TempDir()

	out, err := execute(t,
		"rollup", templateDir, targetDir, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "written    README.md (overwrite)")
	assert.Contains(t, out, "1 files: 1 written, 0 unchanged, 0 skipped")

	blob, err := os.ReadFile(filepath.Join(targetDir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", string(blob))
}

func TestRollupCmd_SetOverridesContext(t *testing.T) {
	templateDir := newTemplateFixture(t)
	targetDir := t.TempDir()

	_, err := execute(t,
		"rollup", templateDir, targetDir,
		"--set", "project_name=custom", "--no-input", "--format", "text")
	require.NoError(t, err)

	blob, err := os.ReadFile(filepath.Join(targetDir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# custom\n", string(blob))
}

func TestRollupCmd_JSONFormat(t *testing.T) {
	templateDir := newTemplateFixture(t)
	targetDir := t.TempDir()

	out, err := execute(t,
		"rollup", templateDir, targetDir, "--format", "json")
	require.NoError(t, err)

	var result rollup.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	assert.Equal(t, "README.md", result.Files[0].Path)
	assert.Equal(t, rollup.OutcomeWritten, result.Files[0].Outcome)
	assert.NotEmpty(t, result.Revision)
}

func TestRollupCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "rollup", "/tmp/only-one")
	require.Error(t, err)
}

func TestRollupCmd_RejectsMalformedSet(t *testing.T) {
	templateDir := newTemplateFixture(t)
	targetDir := t.TempDir()

	_, err := execute(t,
		"rollup", templateDir, targetDir, "--set", "no-equals-sign")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestRollupCmd_RejectsUnknownFormat(t *testing.T) {
	templateDir := newTemplateFixture(t)
	targetDir := t.TempDir()

	_, err := execute(t,
		"rollup", templateDir, targetDir, "--format", "yaml")
	require.Error(t, err)
}

func TestAutomationCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "automation", "https://example.com/template.git")
	require.Error(t, err)
}

func TestGenconfigCmd(t *testing.T) {
	out, err := execute(t, "genconfig")
	require.NoError(t, err)

	assert.Contains(t, out, "context_type: restamp_conf")
	assert.Contains(t, out, "sections_merge")
	assert.Contains(t, out, "sorted_unique_lines")
}

func TestStrategiesCmd(t *testing.T) {
	out, err := execute(t, "strategies", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "template_hash")
	assert.Contains(t, out, "sections_merge")
	assert.Contains(t, out, "first match wins")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "restamp version")
}

func TestRootCmd_NoArgsFails(t *testing.T) {
	out, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, out, "Usage:")
}

func TestCompletionCmd(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "restamp")

	_, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}
