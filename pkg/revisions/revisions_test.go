// Test Type: Unit Test
// Description: Tests for the per-file template revision store

package revisions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/revisions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	targetDir := t.TempDir()

	store, err := revisions.Load(targetDir)
	require.NoError(t, err)

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Get("setup.py"))

	// Saving an untouched store must not create the file.
	require.NoError(t, store.Save())
	_, err = os.Stat(filepath.Join(targetDir, revisions.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRecordAndSave_RoundTrip(t *testing.T) {
	targetDir := t.TempDir()

	store, err := revisions.Load(targetDir)
	require.NoError(t, err)

	store.Record(".gitignore", "8d3c07ff")
	store.Record("Jenkinsfile", "8d3c07ff")
	require.NoError(t, store.Save())

	blob, err := os.ReadFile(filepath.Join(targetDir, revisions.FileName))
	require.NoError(t, err)
	expected := "[revisions]\n.gitignore = 8d3c07ff\nJenkinsfile = 8d3c07ff\n\n"
	assert.Equal(t, expected, string(blob))

	reloaded, err := revisions.Load(targetDir)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
	assert.Equal(t, "8d3c07ff", reloaded.Get(".gitignore"))
	assert.Equal(t, "8d3c07ff", reloaded.Get("Jenkinsfile"))
}

func TestRecord_SameValueDoesNotDirty(t *testing.T) {
	targetDir := t.TempDir()

	store, err := revisions.Load(targetDir)
	require.NoError(t, err)
	store.Record(".gitignore", "8d3c07ff")
	require.NoError(t, store.Save())

	reloaded, err := revisions.Load(targetDir)
	require.NoError(t, err)
	reloaded.Record(".gitignore", "8d3c07ff")

	// Remove the file; a clean store must not write it back.
	require.NoError(t, os.Remove(filepath.Join(targetDir, revisions.FileName)))
	require.NoError(t, reloaded.Save())
	_, err = os.Stat(filepath.Join(targetDir, revisions.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRecord_EmptyRevisionIgnored(t *testing.T) {
	targetDir := t.TempDir()

	store, err := revisions.Load(targetDir)
	require.NoError(t, err)

	store.Record(".gitignore", "")
	assert.Equal(t, 0, store.Len())

	require.NoError(t, store.Save())
	_, err = os.Stat(filepath.Join(targetDir, revisions.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_CorruptStoreFails(t *testing.T) {
	targetDir := t.TempDir()
	path := filepath.Join(targetDir, revisions.FileName)
	require.NoError(t, os.WriteFile(path, []byte("orphan line before any section\n"), 0644))

	_, err := revisions.Load(targetDir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileParse))
}

func TestStore_UpdateExistingEntry(t *testing.T) {
	targetDir := t.TempDir()

	store, err := revisions.Load(targetDir)
	require.NoError(t, err)
	store.Record(".gitignore", "aaaa1111")
	require.NoError(t, store.Save())

	reloaded, err := revisions.Load(targetDir)
	require.NoError(t, err)
	reloaded.Record(".gitignore", "bbbb2222")
	require.NoError(t, reloaded.Save())

	final, err := revisions.Load(targetDir)
	require.NoError(t, err)
	assert.Equal(t, "bbbb2222", final.Get(".gitignore"))
	assert.Equal(t, 1, final.Len())
}
