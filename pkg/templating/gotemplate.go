package templating

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/logging"
)

// NameGoTemplate is the built-in Go text/template engine.
const NameGoTemplate = "gotemplate"

// Binary detection looks for a NUL byte in the leading bytes, the way
// git distinguishes text from binary.
const binarySniffLen = 8000

type goTemplateEngine struct {
	logger zerolog.Logger
}

func newGoTemplateEngine() *goTemplateEngine {
	return &goTemplateEngine{
		logger: logging.GetLogger("templating.gotemplate"),
	}
}

func (e *goTemplateEngine) Name() string { return NameGoTemplate }

// Render walks templateDir/template and interpolates both path names
// and contents with ctx. Binary files are copied verbatim; their paths
// are still interpolated. File modes carry over from the working copy.
func (e *goTemplateEngine) Render(templateDir string, ctx map[string]string) (*Tree, error) {
	root := filepath.Join(templateDir, TemplateSubdir)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrTemplateInvalid,
			"template has no %s directory at %s", TemplateSubdir, templateDir)
	}

	tree := NewTree()
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "walking %s", p)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "relativizing %s", p)
		}
		relSlash := filepath.ToSlash(rel)

		outPath, err := e.renderString(relSlash, ctx)
		if err != nil {
			return errors.Wrapf(err, errors.ErrTemplateRender, "path %s", relSlash)
		}
		outPath, err = normalizeRenderedPath(relSlash, outPath)
		if err != nil {
			return err
		}
		if _, exists := tree.Get(outPath); exists {
			return errors.Newf(errors.ErrTemplateRender,
				"path %s: rendered path %s collides with another template file", relSlash, outPath)
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "reading %s", p)
		}
		fileInfo, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "stat %s", p)
		}

		out := content
		if !isBinary(content) {
			rendered, err := e.renderString(string(content), ctx)
			if err != nil {
				return errors.Wrapf(err, errors.ErrTemplateRender, "file %s", relSlash)
			}
			out = []byte(rendered)
		}

		tree.Add(outPath, File{Content: out, Mode: fileInfo.Mode().Perm()})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	e.logger.Debug().
		Str("templateDir", templateDir).
		Int("files", tree.Len()).
		Msg("Rendered template tree")
	return tree, nil
}

func (e *goTemplateEngine) renderString(text string, ctx map[string]string) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New("").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

// normalizeRenderedPath rejects rendered paths that would escape the
// target root.
func normalizeRenderedPath(source, rendered string) (string, error) {
	clean := path.Clean(rendered)
	if clean == "." || clean == "" {
		return "", errors.Newf(errors.ErrTemplateRender,
			"path %s: rendered path is empty", source)
	}
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.Newf(errors.ErrTemplateRender,
			"path %s: rendered path %s escapes the target root", source, rendered)
	}
	return clean, nil
}

func isBinary(content []byte) bool {
	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}
