// Package rollup applies a template working copy onto a target
// project.
//
// A rollup renders the template tree against the merged context,
// resolves a merge strategy for every rendered file, applies it, and
// writes the result only when the bytes changed. Files that exist only
// in the target are never visited, so a rollup cannot delete or
// clobber anything the template does not know about.
package rollup

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/arthur-debert/restamp/pkg/config"
	"github.com/arthur-debert/restamp/pkg/contextfile"
	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/gitmeta"
	"github.com/arthur-debert/restamp/pkg/logging"
	"github.com/arthur-debert/restamp/pkg/revisions"
	"github.com/arthur-debert/restamp/pkg/rules"
	"github.com/arthur-debert/restamp/pkg/strategies"
	"github.com/arthur-debert/restamp/pkg/templating"
	"github.com/rs/zerolog"
)

// Outcome classifies what a rollup did with one rendered file.
type Outcome string

const (
	// OutcomeWritten means the merged bytes differed and the target
	// file was (re)written.
	OutcomeWritten Outcome = "written"
	// OutcomeUnchanged means the merged bytes already matched the
	// target file.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkipped means the strategy left the target untouched.
	OutcomeSkipped Outcome = "skipped"
)

// FileResult is the outcome for a single rendered file.
type FileResult struct {
	Path     string  `json:"path"`
	Strategy string  `json:"strategy"`
	Outcome  Outcome `json:"outcome"`
}

// Result reports a completed rollup.
type Result struct {
	TemplateDir string `json:"templateDir"`
	TargetDir   string `json:"targetDir"`
	// Revision is the template commit the rollup ran from, empty for
	// a dirty template working copy.
	Revision string            `json:"revision,omitempty"`
	Context  map[string]string `json:"context"`
	Files    []FileResult      `json:"files"`
}

// CountOf returns how many files ended with the given outcome.
func (r *Result) CountOf(outcome Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == outcome {
			n++
		}
	}
	return n
}

// Options defines the options for the Run command.
type Options struct {
	// TemplateDir is the template working copy root.
	TemplateDir string
	// TargetDir is the target project root. Created if missing.
	TargetDir string
	// ExtraContext overrides persisted context values (--set).
	ExtraContext map[string]string
	// NoInput suppresses the informational context echo.
	NoInput bool
	// Meta overrides git metadata discovery of the template working
	// copy (used by tests).
	Meta *gitmeta.Meta
}

// Run performs one rollup of the template onto the target project.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("rollup")
	logger.Debug().
		Str("template", opts.TemplateDir).
		Str("target", opts.TargetDir).
		Msg("Starting rollup")
	defer logging.LogOperationStart(logger, "rollup")()

	cfg, err := config.Load(opts.TemplateDir)
	if err != nil {
		return nil, err
	}

	meta := opts.Meta
	if meta == nil {
		meta, err = gitmeta.Read(opts.TemplateDir, cfg.GitRemote)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(opts.TargetDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"creating target directory %s", opts.TargetDir)
	}
	projectDest, err := resolveProjectDest(opts.TargetDir)
	if err != nil {
		return nil, err
	}

	reader, err := contextfile.New(cfg.ContextType)
	if err != nil {
		return nil, err
	}
	persisted, err := readPersistedContext(reader, opts.TargetDir, logger)
	if err != nil {
		return nil, err
	}

	ctx := mergeContext(cfg.DefaultContext, persisted, opts.ExtraContext, meta.ContextVars())
	if _, ok := ctx["project_dest"]; !ok {
		ctx["project_dest"] = projectDest
	}
	if !opts.NoInput {
		logger.Info().
			Str("project_dest", projectDest).
			Msg("project_dest must equal the target directory name")
	}

	ruleset, err := rules.Compile(cfg.Strategies, cfg.DefaultStrategy, ctx)
	if err != nil {
		return nil, err
	}

	engine, err := templating.New(templating.NameGoTemplate)
	if err != nil {
		return nil, err
	}
	tree, err := engine.Render(opts.TemplateDir, ctx)
	if err != nil {
		return nil, err
	}

	store, err := revisions.Load(opts.TargetDir)
	if err != nil {
		return nil, err
	}
	revision := meta.Revision()

	result := &Result{
		TemplateDir: opts.TemplateDir,
		TargetDir:   opts.TargetDir,
		Revision:    revision,
		Context:     ctx,
		Files:       make([]FileResult, 0, tree.Len()),
	}

	for _, relPath := range tree.Paths() {
		file, _ := tree.Get(relPath)
		strategy := ruleset.Resolve(relPath)

		outcome, err := applyOne(opts.TargetDir, relPath, file, strategy, revision, store)
		if err != nil {
			return nil, err
		}
		if outcome != OutcomeSkipped {
			store.Record(relPath, revision)
		}

		logger.Debug().
			Str("path", relPath).
			Str("strategy", strategy.Name()).
			Str("outcome", string(outcome)).
			Msg("Processed file")
		result.Files = append(result.Files, FileResult{
			Path:     relPath,
			Strategy: strategy.Name(),
			Outcome:  outcome,
		})
	}

	if err := store.Save(); err != nil {
		return nil, err
	}

	// Templates are expected to render the persisted-context file so
	// the next rollup can start from this one's context. Not doing so
	// is legal for fully static templates, hence only a warning.
	if _, err := reader.Read(opts.TargetDir); err != nil {
		if errors.IsErrorCode(err, errors.ErrContextNotFound) {
			logger.Warn().
				Str("file", reader.Path(opts.TargetDir)).
				Msg("Template did not persist a context file; the next rollup starts from an empty context")
		} else {
			logger.Warn().Err(err).Msg("Persisted context is unreadable after rollup")
		}
	}

	logger.Info().
		Int("files", len(result.Files)).
		Int("written", result.CountOf(OutcomeWritten)).
		Int("unchanged", result.CountOf(OutcomeUnchanged)).
		Int("skipped", result.CountOf(OutcomeSkipped)).
		Msg("Rollup done")
	return result, nil
}

// applyOne merges one rendered file into the target tree and reports
// the outcome.
func applyOne(targetDir, relPath string, file templating.File,
	strategy strategies.Strategy, revision string, store *revisions.Store) (Outcome, error) {

	targetPath := filepath.Join(targetDir, filepath.FromSlash(relPath))

	targetBlob, targetExists, err := readTarget(targetPath)
	if err != nil {
		return "", err
	}

	res, err := strategy.Apply(strategies.Input{
		Path:             relPath,
		Template:         file.Content,
		Target:           targetBlob,
		TargetExists:     targetExists,
		TemplateRevision: revision,
		RecordedRevision: store.Get(relPath),
	})
	if err != nil {
		return "", errors.Wrapf(err, errors.GetErrorCode(err),
			"strategy %s on %q", strategy.Name(), relPath)
	}
	if res.Skip {
		return OutcomeSkipped, nil
	}

	mode := file.Mode.Perm()
	if targetExists && bytes.Equal(res.Content, targetBlob) {
		if err := syncMode(targetPath, mode); err != nil {
			return "", err
		}
		return OutcomeUnchanged, nil
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate,
			"creating parent directory for %q", relPath)
	}
	if err := os.WriteFile(targetPath, res.Content, mode); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "writing %q", relPath)
	}
	if targetExists {
		// WriteFile's mode applies only on create; a pre-existing
		// file still picks up the template's mode bits.
		if err := syncMode(targetPath, mode); err != nil {
			return "", err
		}
	}
	return OutcomeWritten, nil
}

func readTarget(targetPath string) ([]byte, bool, error) {
	blob, err := os.ReadFile(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrFileAccess, "reading %s", targetPath)
	}
	return blob, true, nil
}

func syncMode(targetPath string, mode os.FileMode) error {
	info, err := os.Stat(targetPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "stat %s", targetPath)
	}
	if info.Mode().Perm() == mode {
		return nil
	}
	if err := os.Chmod(targetPath, mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "chmod %s", targetPath)
	}
	return nil
}

func resolveProjectDest(targetDir string) (string, error) {
	abs, err := filepath.Abs(targetDir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput,
			"resolving target directory %s", targetDir)
	}
	return filepath.Base(abs), nil
}

// readPersistedContext loads the context a previous rollup persisted
// in the target project. A missing file means a first rollup and
// yields an empty context.
func readPersistedContext(reader contextfile.Reader, targetDir string, logger zerolog.Logger) (map[string]string, error) {
	persisted, err := reader.Read(targetDir)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrContextNotFound) {
			logger.Info().
				Str("file", reader.Path(targetDir)).
				Msg("No persisted context file, continuing with an empty context")
			return map[string]string{}, nil
		}
		return nil, err
	}
	if len(persisted) == 0 {
		logger.Info().
			Str("file", reader.Path(targetDir)).
			Msg("Persisted context is empty, continuing with an empty context")
	} else {
		logger.Info().
			Str("file", reader.Path(targetDir)).
			Interface("context", persisted).
			Msg("Continuing with the persisted context")
	}
	return persisted, nil
}

// mergeContext layers the context sources, later sources winning.
func mergeContext(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
