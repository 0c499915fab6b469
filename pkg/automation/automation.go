// Package automation runs unattended rollups against remote
// repositories.
//
// An automation run clones the template and the project to temporary
// directories, rolls the template up non-interactively, and, when the
// rollup changed anything, commits all changes and pushes them to the
// project remote. It is meant to be driven from CI on a schedule so
// projects keep tracking their template without manual rollups.
package automation

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/arthur-debert/restamp/internal/version"
	"github.com/arthur-debert/restamp/pkg/config"
	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/gitmeta"
	"github.com/arthur-debert/restamp/pkg/logging"
	"github.com/arthur-debert/restamp/pkg/rollup"
)

// DefaultAuthor signs automation commits when no author is configured.
const DefaultAuthor = "restamp <restamp@localhost>"

// Options defines the options for the Run command.
type Options struct {
	// TemplateURL is a git clone URL for the template repository.
	TemplateURL string
	// ProjectURL is a git clone URL for the target project.
	ProjectURL string
	// TemplateRef optionally names the template branch to check out.
	TemplateRef string
	// ProjectRef optionally names the project branch to check out.
	ProjectRef string
	// Branch is the remote branch the changes are pushed to. Empty
	// means the branch the project was cloned at.
	Branch string
	// Author signs the commit, "Name <email>" form. Empty means
	// DefaultAuthor.
	Author string
	// ExtraContext overrides persisted context values, like --set on
	// a manual rollup.
	ExtraContext map[string]string
}

// Result reports a completed automation run.
type Result struct {
	// Changed is false when the project was already in sync with the
	// template and nothing was committed.
	Changed bool `json:"changed"`
	// Commit is the created commit hash, empty when Changed is false.
	Commit string `json:"commit,omitempty"`
	// Branch is the remote branch the commit was pushed to.
	Branch string `json:"branch,omitempty"`
	// Rollup is the underlying rollup result.
	Rollup *rollup.Result `json:"rollup"`
}

// Run clones both repositories, rolls the template up, and pushes the
// resulting commit when the rollup changed the project.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("automation")
	defer logging.LogOperationStart(logger, "automation")()

	if opts.TemplateURL == "" || opts.ProjectURL == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"both a template URL and a project URL are required")
	}

	templateDir, err := os.MkdirTemp("", "restamp-template-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "creating template tempdir")
	}
	defer func() { _ = os.RemoveAll(templateDir) }()
	projectDir, err := os.MkdirTemp("", "restamp-project-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "creating project tempdir")
	}
	defer func() { _ = os.RemoveAll(projectDir) }()

	logger.Info().Str("url", opts.TemplateURL).Msg("Cloning template")
	if _, err := clone(templateDir, opts.TemplateURL, opts.TemplateRef); err != nil {
		return nil, err
	}
	logger.Info().Str("url", opts.ProjectURL).Msg("Cloning project")
	projectRepo, err := clone(projectDir, opts.ProjectURL, opts.ProjectRef)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(templateDir)
	if err != nil {
		return nil, err
	}
	meta, err := gitmeta.Read(templateDir, cfg.GitRemote)
	if err != nil {
		return nil, err
	}

	rollupResult, err := rollup.Run(rollup.Options{
		TemplateDir:  templateDir,
		TargetDir:    projectDir,
		ExtraContext: opts.ExtraContext,
		NoInput:      true,
		Meta:         meta,
	})
	if err != nil {
		return nil, err
	}

	worktree, err := projectRepo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrGitCommit, "opening project worktree")
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrGitCommit, "reading project status")
	}
	if status.IsClean() {
		logger.Info().Msg("Rollup did not change anything, the project is in sync with the template")
		return &Result{Changed: false, Rollup: rollupResult}, nil
	}

	logger.Info().Msg("Rollup produced changes, committing them")
	commit, err := commitAll(worktree, meta, opts.Author)
	if err != nil {
		return nil, err
	}

	branch, err := push(projectRepo, opts.Branch)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("commit", commit.String()).
		Str("branch", branch).
		Msg("Changes pushed")

	return &Result{
		Changed: true,
		Commit:  commit.String(),
		Branch:  branch,
		Rollup:  rollupResult,
	}, nil
}

func clone(dir, url, ref string) (*git.Repository, error) {
	cloneOpts := &git.CloneOptions{URL: url}
	if ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	}
	repo, err := git.PlainClone(dir, false, cloneOpts)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitClone, "cloning %s", url)
	}
	return repo, nil
}

func commitAll(worktree *git.Worktree, meta *gitmeta.Meta, author string) (plumbing.Hash, error) {
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, errors.ErrGitCommit, "staging changes")
	}
	commit, err := worktree.Commit(commitMessage(meta, time.Now()), &git.CommitOptions{
		Author: signature(author),
	})
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, errors.ErrGitCommit, "committing changes")
	}
	return commit, nil
}

// push delivers the new HEAD to origin under branch, defaulting to the
// branch the project was cloned at.
func push(repo *git.Repository, branch string) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrGitPush, "resolving project HEAD")
	}
	if branch == "" {
		branch = head.Name().Short()
	}
	refSpec := gitconfig.RefSpec(head.Name().String() + ":refs/heads/" + branch)
	err = repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{refSpec},
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return "", errors.Wrapf(err, errors.ErrGitPush, "pushing to branch %s", branch)
	}
	return branch, nil
}

func commitMessage(meta *gitmeta.Meta, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scheduled template update (%s)\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "* restamp version: %s\n", version.Version)
	fmt.Fprintf(&b, "* template commit: %s\n", meta.CommitURL)
	fmt.Fprintf(&b, "* template ref: %s\n", meta.HeadRef)
	return b.String()
}

var authorRe = regexp.MustCompile(`^(.*?)\s*<([^>]*)>$`)

// signature parses "Name <email>" into a commit signature.
func signature(author string) *object.Signature {
	if author == "" {
		author = DefaultAuthor
	}
	sig := &object.Signature{When: time.Now()}
	if m := authorRe.FindStringSubmatch(author); m != nil {
		sig.Name = m[1]
		sig.Email = m[2]
	} else {
		sig.Name = author
	}
	return sig
}
