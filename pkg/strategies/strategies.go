// Package strategies implements the per-file merge strategies applied
// during a rollup.
//
// A strategy is a pure function over one file: given the rendered
// template contents and the target contents (or their absence), it
// produces the output bytes or signals that the target must be left
// untouched. Strategies are looked up by name through a factory table;
// each factory validates its raw options eagerly, so a malformed
// configuration fails before any file is processed.
package strategies

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/registry"
)

// Built-in strategy names
const (
	NameOverwrite         = "overwrite"
	NameIfMissing         = "if_missing"
	NameIgnore            = "ignore"
	NameIfNewProject      = "if_new_project"
	NameTemplateHash      = "template_hash"
	NameSortedUniqueLines = "sorted_unique_lines"
	NameSectionsMerge     = "sections_merge"
)

// Input carries everything a strategy may consult for a single file.
type Input struct {
	// Path is the file's relative POSIX path in the rendered tree.
	Path string
	// Template holds the rendered template contents.
	Template []byte
	// Target holds the target file contents. It is only meaningful
	// when TargetExists is true; a missing target is a distinct input
	// from an empty one.
	Target       []byte
	TargetExists bool
	// TemplateRevision identifies the template source's current
	// revision. Empty when the template has no stable revision.
	TemplateRevision string
	// RecordedRevision is the template revision recorded for this
	// file at its last rollup. Empty when never recorded.
	RecordedRevision string
}

// Result is the outcome of applying a strategy to one file.
type Result struct {
	// Skip leaves the target untouched and discards the template's
	// version of the file.
	Skip bool
	// Content holds the bytes to write when Skip is false.
	Content []byte
}

// Strategy merges one rendered template file with its target
// counterpart.
type Strategy interface {
	Name() string
	Apply(in Input) (Result, error)
}

// Factory builds a strategy instance from its raw options. Factories
// validate options eagerly and reject unknown keys.
type Factory func(options map[string]interface{}) (Strategy, error)

var factories = registry.New[Factory]()

func init() {
	registry.MustRegister(factories, NameOverwrite, newOverwrite)
	registry.MustRegister(factories, NameIfMissing, newIfMissing)
	registry.MustRegister(factories, NameIgnore, newIgnore)
	registry.MustRegister(factories, NameIfNewProject, newIfNewProject)
	registry.MustRegister(factories, NameTemplateHash, newTemplateHash)
	registry.MustRegister(factories, NameSortedUniqueLines, newSortedUniqueLines)
	registry.MustRegister(factories, NameSectionsMerge, newSectionsMerge)
}

// Register adds a strategy factory under the given name.
func Register(name string, factory Factory) error {
	return factories.Register(name, factory)
}

// GetFactory returns the factory registered under name.
func GetFactory(name string) (Factory, error) {
	factory, err := factories.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrStrategyNotFound, "unknown strategy %q", name)
	}
	return factory, nil
}

// New builds a strategy by name, validating options.
func New(name string, options map[string]interface{}) (Strategy, error) {
	factory, err := GetFactory(name)
	if err != nil {
		return nil, err
	}
	return factory(options)
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	return factories.List()
}

// rejectUnknownOptions fails when options contains a key outside
// allowed. Strategies without options pass an empty allowed set.
func rejectUnknownOptions(strategy string, options map[string]interface{}, allowed ...string) error {
	var unknown []string
	for key := range options {
		found := false
		for _, ok := range allowed {
			if key == ok {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Newf(errors.ErrStrategyConfig,
		"strategy %q: unknown options %v", strategy, unknown)
}

// optionPattern reads a regexp option, compiling it eagerly.
func optionPattern(strategy, key string, options map[string]interface{}, fallback string) (*regexp.Regexp, error) {
	raw, ok := options[key]
	if !ok {
		return regexp.MustCompile(fallback), nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, errors.Newf(errors.ErrStrategyConfig,
			"strategy %q: option %q must be a string, got %T", strategy, key, raw)
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid,
			"strategy %q: option %q", strategy, key)
	}
	return re, nil
}

// optionRuleList reads a list of {sections, keys} rule maps, compiling
// each pattern eagerly. requireKeys controls whether the keys pattern
// is mandatory for every rule.
func optionRuleList(strategy, key string, options map[string]interface{}, requireKeys bool) ([]sectionKeyRule, error) {
	raw, ok := options[key]
	if !ok {
		return nil, nil
	}
	// TOML arrays of tables decode as []map[string]interface{}, YAML
	// sequences as []interface{}.
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
		return nil, errors.Newf(errors.ErrStrategyConfig,
			"strategy %q: option %q must be a list, got %T", strategy, key, raw)
	}

	rules := make([]sectionKeyRule, 0, len(list))
	for i, item := range list {
		rule, err := decodeRule(strategy, fmt.Sprintf("%s[%d]", key, i), item, requireKeys)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func decodeRule(strategy, where string, item interface{}, requireKeys bool) (sectionKeyRule, error) {
	var rule sectionKeyRule

	// preserve_sections rules may be bare pattern strings
	if s, ok := item.(string); ok && !requireKeys {
		re, err := regexp.Compile(s)
		if err != nil {
			return rule, errors.Wrapf(err, errors.ErrPatternInvalid,
				"strategy %q: %s", strategy, where)
		}
		rule.Sections = re
		return rule, nil
	}

	m, ok := item.(map[string]interface{})
	if !ok {
		return rule, errors.Newf(errors.ErrStrategyConfig,
			"strategy %q: %s must be a rule map, got %T", strategy, where, item)
	}
	for k := range m {
		if k != "sections" && k != "keys" {
			return rule, errors.Newf(errors.ErrStrategyConfig,
				"strategy %q: %s: unknown rule field %q", strategy, where, k)
		}
	}

	secRaw, ok := m["sections"]
	if !ok {
		return rule, errors.Newf(errors.ErrStrategyConfig,
			"strategy %q: %s: missing sections pattern", strategy, where)
	}
	secStr, ok := secRaw.(string)
	if !ok {
		return rule, errors.Newf(errors.ErrStrategyConfig,
			"strategy %q: %s: sections pattern must be a string", strategy, where)
	}
	secRe, err := regexp.Compile(secStr)
	if err != nil {
		return rule, errors.Wrapf(err, errors.ErrPatternInvalid,
			"strategy %q: %s: sections", strategy, where)
	}
	rule.Sections = secRe

	keysRaw, ok := m["keys"]
	if !ok {
		if requireKeys {
			return rule, errors.Newf(errors.ErrStrategyConfig,
				"strategy %q: %s: missing keys pattern", strategy, where)
		}
		return rule, nil
	}
	keysStr, ok := keysRaw.(string)
	if !ok {
		return rule, errors.Newf(errors.ErrStrategyConfig,
			"strategy %q: %s: keys pattern must be a string", strategy, where)
	}
	keysRe, err := regexp.Compile(keysStr)
	if err != nil {
		return rule, errors.Wrapf(err, errors.ErrPatternInvalid,
			"strategy %q: %s: keys", strategy, where)
	}
	rule.Keys = keysRe

	return rule, nil
}
