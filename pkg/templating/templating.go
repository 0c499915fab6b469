// Package templating renders a template working copy into an
// in-memory file tree.
//
// Engines interpolate context variables into both file contents and
// path names. The built-in engine uses Go text/template syntax; other
// engines register themselves through the same factory registry the
// merge strategies use.
package templating

import (
	"os"
	"sort"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/registry"
)

// TemplateSubdir is the directory under the template root whose
// contents are rendered into the target project.
const TemplateSubdir = "template"

// File is one rendered file: its content and the mode bits carried
// over from the template working copy.
type File struct {
	Content []byte
	Mode    os.FileMode
}

// Tree is a rendered template: relative slash-separated paths mapped
// to files. Iteration order is sorted and therefore deterministic.
type Tree struct {
	files map[string]File
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{files: make(map[string]File)}
}

// Add records a rendered file under its relative path.
func (t *Tree) Add(path string, f File) {
	t.files[path] = f
}

// Get returns the file at path.
func (t *Tree) Get(path string) (File, bool) {
	f, ok := t.files[path]
	return f, ok
}

// Len returns the number of rendered files.
func (t *Tree) Len() int {
	return len(t.files)
}

// Paths returns all file paths in sorted order.
func (t *Tree) Paths() []string {
	paths := make([]string, 0, len(t.files))
	for p := range t.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Engine renders a template directory against a context.
type Engine interface {
	// Name returns the engine's registered name.
	Name() string

	// Render interpolates every file under templateDir's template
	// subtree with ctx, returning the rendered tree. Unresolved
	// variable references are an error.
	Render(templateDir string, ctx map[string]string) (*Tree, error)
}

// Factory builds an engine.
type Factory func() (Engine, error)

var engines = registry.New[Factory]()

func init() {
	registry.MustRegister(engines, NameGoTemplate, func() (Engine, error) {
		return newGoTemplateEngine(), nil
	})
}

// Register adds an engine factory under name.
func Register(name string, factory Factory) error {
	return engines.Register(name, factory)
}

// New constructs the engine registered under name.
func New(name string) (Engine, error) {
	factory, err := engines.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound,
			"unknown templating engine %q", name)
	}
	return factory()
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	return engines.List()
}
