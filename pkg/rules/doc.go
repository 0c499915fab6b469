// Package rules maps template file paths to merge strategies.
//
// A ruleset is an ordered list of bindings, each pairing a regular
// expression with a strategy name and its options. Paths are matched
// in declared order and the first match wins; a path matching no
// binding falls back to the default strategy (overwrite unless
// configured otherwise).
//
// # Pattern Conventions
//
// Patterns are Go regular expressions matched against the relative
// path of each rendered file, with forward slashes on every platform.
// They are not anchored: an unanchored pattern behaves as a substring
// search, so `setup\.cfg$` matches the file at any depth while
// `^setup\.cfg$` matches only at the root.
//
// Patterns may reference context variables with Go template syntax,
// for example `^{{.project_name}}/__init__\.py$`. References are
// expanded against the final rendering context before compilation.
//
// # Configuration
//
// Bindings come from the template configuration:
//
//	strategies:
//	  - pattern: 'Jenkinsfile$'
//	    strategy: template_hash
//	  - pattern: '\.gitignore$'
//	    strategy: sorted_unique_lines
//	  - pattern: 'setup\.cfg$'
//	    strategy: sections_merge
//	    options:
//	      merge_requirements:
//	        - sections: '^options$'
//	          keys: '^install_requires$'
//
// Every binding is validated when the ruleset is compiled, so a bad
// pattern or strategy configuration fails before any file is touched.
package rules
