// Package gitmeta reads the git status of a template working copy.
//
// The template directory must be a git repository. Its HEAD commit
// identifies the template revision recorded by the revision store, and
// the origin remote yields browsable URLs injected into the rendering
// context.
package gitmeta

import (
	git "github.com/go-git/go-git/v5"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/logging"
)

// Meta is the git metadata of a template working copy.
type Meta struct {
	// ProjectURL is the template project's web URL.
	ProjectURL string

	// CommitHash is the HEAD commit.
	CommitHash string

	// CommitURL is the HEAD commit's web URL.
	CommitURL string

	// IsDirty reports uncommitted changes in the working copy. A
	// dirty template has no stable revision.
	IsDirty bool

	// HeadRef is the checked-out branch name, empty when HEAD is
	// detached.
	HeadRef string
}

// Revision returns the stable revision identifier for the template, or
// an empty string when the working copy is dirty.
func (m *Meta) Revision() string {
	if m.IsDirty {
		return ""
	}
	return m.CommitHash
}

// ContextVars returns the variables the metadata contributes to the
// rendering context.
func (m *Meta) ContextVars() map[string]string {
	return map[string]string{
		"_template_url":        m.ProjectURL,
		"_template_commit":     m.CommitHash,
		"_template_commit_url": m.CommitURL,
		"_template_ref":        m.HeadRef,
	}
}

// Read collects the metadata of the template at templateDir.
// remoteType selects the web URL style, RemoteAuto detects it from the
// origin URL.
func Read(templateDir, remoteType string) (*Meta, error) {
	logger := logging.GetLogger("gitmeta")

	repo, err := git.PlainOpenWithOptions(templateDir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitMeta,
			"%s is not a git repository", templateDir)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitMeta,
			"failed to resolve HEAD in %s", templateDir)
	}

	headRef := ""
	if head.Name().IsBranch() {
		headRef = head.Name().Short()
	}

	origin, err := repo.Remote("origin")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitMeta,
			"template %s has no origin remote", templateDir)
	}
	remoteURL := origin.Config().URLs[0]

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitMeta,
			"failed to open worktree of %s", templateDir)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitMeta,
			"failed to read worktree status of %s", templateDir)
	}

	remote, err := NewRemote(remoteURL, remoteType)
	if err != nil {
		return nil, err
	}

	commitHash := head.Hash().String()
	meta := &Meta{
		ProjectURL: remote.ProjectURL(),
		CommitHash: commitHash,
		CommitURL:  remote.CommitURL(commitHash),
		IsDirty:    !status.IsClean(),
		HeadRef:    headRef,
	}

	logger.Debug().
		Str("commit", meta.CommitHash).
		Str("ref", meta.HeadRef).
		Bool("dirty", meta.IsDirty).
		Msg("Read template metadata")
	return meta, nil
}
