// Package contextfile reads the persisted template context from a
// target project.
//
// The context is rendered into the target by the template itself, for
// example as a .restamp.conf with a [template_context] section. On the
// next rollup the recorded variables are read back so the template can
// be re-rendered without asking for them again.
//
// A reader reports a missing file with ErrContextNotFound; the caller
// decides whether that is fatal. A file that parses but carries no
// context yields an empty map.
package contextfile

import (
	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/registry"
)

// Registered reader names, selected by the context_type configuration
// key.
const (
	NameRestampConf = "restamp_conf"
	NameSetupCfg    = "setup_cfg"
	NameYAML        = "yaml"
	NameTOML        = "toml"
)

// Reader retrieves the persisted context from a project directory.
type Reader interface {
	// Name returns the reader's registered name.
	Name() string

	// Path returns the file the reader consults under dir, for
	// messages.
	Path(dir string) string

	// Read returns the persisted context. A missing file is reported
	// with ErrContextNotFound; an unparsable file with
	// ErrContextParse. A file without the context section yields an
	// empty map.
	Read(dir string) (map[string]string, error)
}

// Factory builds a reader.
type Factory func() Reader

var readers = registry.New[Factory]()

func init() {
	registry.MustRegister(readers, NameRestampConf, func() Reader { return newConfReader() })
	registry.MustRegister(readers, NameSetupCfg, func() Reader { return newSetupCfgReader() })
	registry.MustRegister(readers, NameYAML, func() Reader { return newYAMLReader() })
	registry.MustRegister(readers, NameTOML, func() Reader { return newTOMLReader() })
}

// Register adds a reader factory under name.
func Register(name string, factory Factory) error {
	return readers.Register(name, factory)
}

// New constructs the reader registered under name.
func New(name string) (Reader, error) {
	factory, err := readers.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound,
			"unknown context type %q", name)
	}
	return factory(), nil
}

// Names returns the registered reader names in sorted order.
func Names() []string {
	return readers.List()
}
