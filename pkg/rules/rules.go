package rules

import (
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/logging"
	"github.com/arthur-debert/restamp/pkg/strategies"
	"github.com/rs/zerolog"
)

// Binding pairs a path pattern with a strategy and its options.
type Binding struct {
	Pattern  string                 `koanf:"pattern" yaml:"pattern" json:"pattern"`
	Strategy string                 `koanf:"strategy" yaml:"strategy" json:"strategy"`
	Options  map[string]interface{} `koanf:"options" yaml:"options" json:"options,omitempty"`
}

type compiledBinding struct {
	pattern  *regexp.Regexp
	strategy strategies.Strategy
	source   Binding
}

// Ruleset resolves relative file paths to compiled strategies.
type Ruleset struct {
	bindings []compiledBinding
	fallback strategies.Strategy
	logger   zerolog.Logger
}

// Compile validates every binding and builds a ruleset. Patterns are
// expanded against vars, compiled as regular expressions, and each
// strategy is constructed with its options so configuration errors
// surface here rather than mid-rollup. defaultStrategy names the
// fallback for unmatched paths; empty means overwrite.
func Compile(bindings []Binding, defaultStrategy string, vars map[string]string) (*Ruleset, error) {
	rs := &Ruleset{
		bindings: make([]compiledBinding, 0, len(bindings)),
		logger:   logging.GetLogger("rules"),
	}

	for i, b := range bindings {
		expanded, err := expandPattern(b.Pattern, vars)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrTemplateRender,
				"binding %d: pattern %q", i, b.Pattern)
		}
		re, err := regexp.Compile(expanded)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPatternInvalid,
				"binding %d: pattern %q", i, b.Pattern)
		}
		strategy, err := strategies.New(b.Strategy, b.Options)
		if err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err),
				"binding %d (pattern %q)", i, b.Pattern)
		}
		rs.bindings = append(rs.bindings, compiledBinding{
			pattern:  re,
			strategy: strategy,
			source:   b,
		})
	}

	if defaultStrategy == "" {
		defaultStrategy = strategies.NameOverwrite
	}
	fallback, err := strategies.New(defaultStrategy, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.GetErrorCode(err),
			"default strategy %q", defaultStrategy)
	}
	rs.fallback = fallback

	rs.logger.Debug().
		Int("bindings", len(rs.bindings)).
		Str("default", fallback.Name()).
		Msg("Compiled ruleset")
	return rs, nil
}

// Resolve returns the strategy for relPath. Bindings are checked in
// declared order and the first matching pattern wins; unmatched paths
// get the fallback strategy.
func (r *Ruleset) Resolve(relPath string) strategies.Strategy {
	path := filepath.ToSlash(relPath)
	for _, b := range r.bindings {
		if b.pattern.MatchString(path) {
			r.logger.Debug().
				Str("path", path).
				Str("pattern", b.source.Pattern).
				Str("strategy", b.strategy.Name()).
				Msg("Path matched binding")
			return b.strategy
		}
	}
	r.logger.Debug().
		Str("path", path).
		Str("strategy", r.fallback.Name()).
		Msg("No binding matched, using default strategy")
	return r.fallback
}

// Len returns the number of compiled bindings.
func (r *Ruleset) Len() int {
	return len(r.bindings)
}

// expandPattern resolves Go template references in pattern against
// vars. Patterns without references pass through untouched, so regexp
// repetition braces never reach the template parser.
func expandPattern(pattern string, vars map[string]string) (string, error) {
	if !strings.Contains(pattern, "{{") {
		return pattern, nil
	}
	tmpl, err := template.New("pattern").Option("missingkey=error").Parse(pattern)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", err
	}
	return b.String(), nil
}
