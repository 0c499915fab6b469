// Package sections models INI-like files as an ordered sequence of
// named sections holding ordered key/value entries.
//
// A value may encode an ordered list of sub-items (newline-joined), as
// package-metadata files do for requirement lists. Parsing preserves
// encounter order; serialization is canonical and independent of it.
package sections

import (
	"sort"
	"strings"
)

// Entry is a key paired with a value. A multi-item value stores its
// sub-items joined by newlines, each already trimmed and non-blank.
type Entry struct {
	Key   string
	Value string
}

// Values returns the ordered sub-items of the entry's value.
func (e *Entry) Values() []string {
	return SplitValue(e.Value)
}

// Section is a named, ordered collection of entries. Keys are unique
// and case-sensitive within a section.
type Section struct {
	Name    string
	entries []*Entry
	index   map[string]*Entry
}

// NewSection creates an empty section with the given name.
func NewSection(name string) *Section {
	return &Section{
		Name:  name,
		index: make(map[string]*Entry),
	}
}

// Entries returns the section's entries in insertion order.
func (s *Section) Entries() []*Entry {
	return s.entries
}

// Get returns the value for key and whether the key is present.
func (s *Section) Get(key string) (string, bool) {
	e, ok := s.index[key]
	if !ok {
		return "", false
	}
	return e.Value, true
}

// Has reports whether the section contains key.
func (s *Section) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Set adds the key with the given value, or replaces the value of an
// existing key in place.
func (s *Section) Set(key, value string) {
	if e, ok := s.index[key]; ok {
		e.Value = value
		return
	}
	e := &Entry{Key: key, Value: value}
	s.entries = append(s.entries, e)
	s.index[key] = e
}

// Keys returns the section's keys in insertion order.
func (s *Section) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// SortedKeys returns the section's keys in lexicographic order.
func (s *Section) SortedKeys() []string {
	keys := s.Keys()
	sort.Strings(keys)
	return keys
}

// Copy returns a deep copy of the section.
func (s *Section) Copy() *Section {
	out := NewSection(s.Name)
	for _, e := range s.entries {
		out.Set(e.Key, e.Value)
	}
	return out
}

// Document is an ordered collection of sections. Section names are
// unique and case-sensitive within a document.
type Document struct {
	sections []*Section
	index    map[string]*Section
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		index: make(map[string]*Section),
	}
}

// Sections returns the document's sections in insertion order.
func (d *Document) Sections() []*Section {
	return d.sections
}

// Section returns the named section and whether it is present.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.index[name]
	return s, ok
}

// Has reports whether the document contains the named section.
func (d *Document) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Ensure returns the named section, adding an empty one if absent.
func (d *Document) Ensure(name string) *Section {
	if s, ok := d.index[name]; ok {
		return s
	}
	s := NewSection(name)
	d.sections = append(d.sections, s)
	d.index[name] = s
	return s
}

// Add appends the given section. The caller must not add a name twice.
func (d *Document) Add(s *Section) {
	d.sections = append(d.sections, s)
	d.index[s.Name] = s
}

// Names returns the section names in insertion order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		names = append(names, s.Name)
	}
	return names
}

// SortedNames returns the section names in lexicographic order.
func (d *Document) SortedNames() []string {
	names := d.Names()
	sort.Strings(names)
	return names
}

// SplitValue decomposes a value string into its ordered sub-items:
// newline-separated, trimmed of surrounding whitespace, blank items
// discarded.
func SplitValue(value string) []string {
	var items []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

// JoinValues is the inverse of SplitValue.
func JoinValues(items []string) string {
	return strings.Join(items, "\n")
}
