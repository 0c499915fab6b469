package contextfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/restamp/pkg/errors"
)

type yamlReader struct{}

func newYAMLReader() Reader { return &yamlReader{} }

func (r *yamlReader) Name() string { return NameYAML }

func (r *yamlReader) Path(dir string) string {
	return filepath.Join(dir, ".restamp-context.yaml")
}

func (r *yamlReader) Read(dir string) (map[string]string, error) {
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
	if err := yaml.Unmarshal(blob, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrContextParse, "parsing %s", path)
	}
	return scalarContext(path, doc["template_context"])
}

// scalarContext converts the raw template_context mapping into string
// values. Context variables are flat strings; nested values are a
// structural error.
func scalarContext(path string, raw interface{}) (map[string]string, error) {
	ctx := make(map[string]string)
	if raw == nil {
		return ctx, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrContextParse,
			"%s: template_context must be a mapping, got %T", path, raw)
	}
	for key, value := range m {
		switch v := value.(type) {
		case string:
			ctx[key] = v
		case bool, int, int64, uint64, float64:
			ctx[key] = fmt.Sprintf("%v", v)
		default:
			return nil, errors.Newf(errors.ErrContextParse,
				"%s: context value %q must be a scalar, got %T", path, key, value)
		}
	}
	return ctx, nil
}
