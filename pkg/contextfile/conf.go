package contextfile

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/sections"
)

// iniReader reads the context from a named section of an INI-style
// file. Both the .restamp.conf and setup.cfg readers are instances.
type iniReader struct {
	name     string
	fileName string
	section  string
}

func newConfReader() Reader {
	return &iniReader{
		name:     NameRestampConf,
		fileName: ".restamp.conf",
		section:  "template_context",
	}
}

func newSetupCfgReader() Reader {
	return &iniReader{
		name:     NameSetupCfg,
		fileName: "setup.cfg",
		section:  "tool:template_context",
	}
}

func (r *iniReader) Name() string { return r.name }

func (r *iniReader) Path(dir string) string {
	return filepath.Join(dir, r.fileName)
}

func (r *iniReader) Read(dir string) (map[string]string, error) {
	path := r.Path(dir)
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrContextNotFound,
				"%s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading %s", path)
	}

	doc, err := sections.Parse(blob)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrContextParse, "parsing %s", path)
	}

	ctx := make(map[string]string)
	section, ok := doc.Section(r.section)
	if !ok {
		return ctx, nil
	}
	for _, key := range section.Keys() {
		value, _ := section.Get(key)
		ctx[key] = value
	}
	return ctx, nil
}
