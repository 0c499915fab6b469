package contextfile

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/restamp/pkg/errors"
)

type tomlReader struct{}

func newTOMLReader() Reader { return &tomlReader{} }

func (r *tomlReader) Name() string { return NameTOML }

func (r *tomlReader) Path(dir string) string {
	return filepath.Join(dir, ".restamp-context.toml")
}

func (r *tomlReader) Read(dir string) (map[string]string, error) {
	path := r.Path(dir)
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrContextNotFound,
				"%s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading %s", path)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(blob, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrContextParse, "parsing %s", path)
	}
	return scalarContext(path, doc["template_context"])
}
