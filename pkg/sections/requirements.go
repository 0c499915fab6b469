package sections

import "regexp"

// requirementNameRe matches the leading package name of a requirement
// sub-item, ending before any comparison operator, extras bracket,
// whitespace, or environment-marker separator.
var requirementNameRe = regexp.MustCompile(`^[A-Za-z0-9._-]+`)

// RequirementName returns the name prefix of a requirement-like
// sub-item ("aiohttp==4.3" -> "aiohttp", "pkg[extra]>=1" -> "pkg").
// A sub-item with no recognizable name returns its full text, so
// malformed items still merge keyed by exact text.
func RequirementName(item string) string {
	name := requirementNameRe.FindString(item)
	if name == "" {
		return item
	}
	return name
}
