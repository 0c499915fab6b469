// Package config loads the template configuration for a rollup.
//
// Configuration merges two layers: embedded defaults, then a
// restamp.yaml or restamp.toml at the template root. Scalar keys
// override individually; the strategies list, being ordered, replaces
// the default list as a whole when present.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/logging"
	"github.com/arthur-debert/restamp/pkg/rules"
)

// File names probed at the template root, first hit wins.
var configFileNames = []string{"restamp.yaml", "restamp.toml"}

// Config is the effective template configuration.
type Config struct {
	// ContextType selects the persisted-context reader used in the
	// target project.
	ContextType string

	// GitRemote names the remote URL style (auto, github, gitlab,
	// bitbucket).
	GitRemote string

	// DefaultStrategy applies to paths no binding matches.
	DefaultStrategy string

	// DefaultContext provides variable defaults, overridden by the
	// persisted context and --set values.
	DefaultContext map[string]string

	// Strategies is the ordered binding list for path dispatch.
	Strategies []rules.Binding
}

// Load reads the configuration for the template rooted at templateDir.
// A missing template config file is fine; the embedded defaults then
// apply unchanged.
func Load(templateDir string) (*Config, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	for _, name := range configFileNames {
		path := filepath.Join(templateDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		var parser koanf.Parser = yaml.Parser()
		if filepath.Ext(name) == ".toml" {
			parser = toml.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded template configuration")
		break
	}

	bindings, err := decodeBindings(k.Get("strategies"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ContextType:     k.String("context_type"),
		GitRemote:       k.String("git_remote"),
		DefaultStrategy: k.String("default_strategy"),
		DefaultContext:  k.StringMap("default_context"),
		Strategies:      bindings,
	}

	logger.Debug().
		Str("contextType", cfg.ContextType).
		Str("gitRemote", cfg.GitRemote).
		Int("bindings", len(cfg.Strategies)).
		Msg("Configuration resolved")
	return cfg, nil
}

// decodeBindings turns the raw strategies list into bindings. Each
// item is either the full {pattern, strategy, options} form or the
// shorthand single-entry form mapping a pattern directly to a strategy
// name. YAML sequences arrive as []interface{}, TOML arrays of tables
// as []map[string]interface{}.
func decodeBindings(raw interface{}) ([]rules.Binding, error) {
	if raw == nil {
		return nil, nil
	}

	var list []interface{}
	switch v := raw.(type) {
	case []interface{}:
		list = v
	case []map[string]interface{}:
		list = make([]interface{}, len(v))
		for i, m := range v {
			list[i] = m
		}
	default:
		return nil, errors.Newf(errors.ErrConfigValid,
			"strategies must be a list, got %T", raw)
	}

	bindings := make([]rules.Binding, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid,
				"strategies[%d] must be a mapping, got %T", i, item)
		}
		b, err := decodeBinding(i, m)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

func isReservedBindingField(key string) bool {
	return key == "pattern" || key == "strategy" || key == "options"
}

func decodeBinding(i int, m map[string]interface{}) (rules.Binding, error) {
	var b rules.Binding

	if len(m) == 1 {
		for key, value := range m {
			if isReservedBindingField(key) {
				break
			}
			name, ok := value.(string)
			if !ok {
				return b, errors.Newf(errors.ErrConfigValid,
					"strategies[%d]: shorthand value for pattern %q must be a strategy name, got %T",
					i, key, value)
			}
			b.Pattern = key
			b.Strategy = name
			return b, nil
		}
	}

	for key := range m {
		if !isReservedBindingField(key) {
			return b, errors.Newf(errors.ErrConfigValid,
				"strategies[%d]: unknown field %q", i, key)
		}
	}

	pattern, ok := m["pattern"].(string)
	if !ok || pattern == "" {
		return b, errors.Newf(errors.ErrConfigValid,
			"strategies[%d]: missing pattern", i)
	}
	strategy, ok := m["strategy"].(string)
	if !ok || strategy == "" {
		return b, errors.Newf(errors.ErrConfigValid,
			"strategies[%d]: missing strategy", i)
	}
	b.Pattern = pattern
	b.Strategy = strategy

	if raw, present := m["options"]; present {
		options, ok := raw.(map[string]interface{})
		if !ok {
			return b, errors.Newf(errors.ErrConfigValid,
				"strategies[%d]: options must be a mapping, got %T", i, raw)
		}
		b.Options = options
	}
	return b, nil
}
