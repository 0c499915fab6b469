// Package revisions persists, per rolled-up file, the template commit
// whose rollup last produced it.
//
// The store is a structured-section document at the target root:
//
//	[revisions]
//	.gitignore = 8d3c07f...
//	Jenkinsfile = 8d3c07f...
//
// template_hash bindings consult it to decide whether the template has
// advanced past the commit that produced a target file. The orchestrator
// loads the store before the file loop and saves it once afterwards.
package revisions

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/sections"
)

// FileName is the store's file name under the target root.
const FileName = ".restamp.revisions"

const sectionName = "revisions"

// Store maps relative file paths to template commit hashes.
type Store struct {
	path    string
	entries map[string]string
	dirty   bool
}

// Load reads the store of the target rooted at targetDir. A missing
// store file yields an empty store (first rollup); an unparsable one
// is an error.
func Load(targetDir string) (*Store, error) {
	store := &Store{
		path:    filepath.Join(targetDir, FileName),
		entries: make(map[string]string),
	}

	blob, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading %s", store.path)
	}

	doc, err := sections.Parse(blob)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileParse, "parsing %s", store.path)
	}
	if section, ok := doc.Section(sectionName); ok {
		for _, key := range section.Keys() {
			value, _ := section.Get(key)
			store.entries[key] = value
		}
	}
	return store, nil
}

// Get returns the commit recorded for relPath, empty when never
// recorded.
func (s *Store) Get(relPath string) string {
	return s.entries[relPath]
}

// Record notes that relPath was produced by the template commit
// revision. Recording an empty revision is a no-op: a dirty template
// working copy has no stable revision to remember.
func (s *Store) Record(relPath, revision string) {
	if revision == "" {
		return
	}
	if s.entries[relPath] == revision {
		return
	}
	s.entries[relPath] = revision
	s.dirty = true
}

// Len returns the number of recorded files.
func (s *Store) Len() int {
	return len(s.entries)
}

// Save writes the store back to the target root when any recording
// changed it. An empty store that never existed on disk is not
// created.
func (s *Store) Save() error {
	if !s.dirty {
		return nil
	}
	doc := sections.NewDocument()
	section := doc.Ensure(sectionName)
	for path, revision := range s.entries {
		section.Set(path, revision)
	}
	if err := os.WriteFile(s.path, doc.Serialize(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "writing %s", s.path)
	}
	s.dirty = false
	return nil
}
