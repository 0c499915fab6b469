package sections

import (
	"strings"

	"github.com/arthur-debert/restamp/pkg/errors"
)

// Parse reads an INI-like blob into a Document.
//
// Section headers are lines of the form "[name]". Full-line comments
// (first non-blank character "#" or ";") are stripped. Within a
// section, "key = value" and "key: value" lines are collected;
// continuation lines indented relative to the key extend its value as
// additional sub-items. Content before the first section header,
// duplicate sections, and duplicate keys are structural errors.
func Parse(blob []byte) (*Document, error) {
	doc := NewDocument()
	var cur *Section
	var curEntry *Entry

	lines := strings.Split(string(blob), "\n")
	for i, raw := range lines {
		num := i + 1
		line := strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}
		if trimmed[0] == '#' || trimmed[0] == ';' {
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'
		if indented {
			if curEntry == nil {
				return nil, errors.Newf(errors.ErrFileParse,
					"line %d: continuation line without a preceding key", num).
					WithDetail("line", num)
			}
			if curEntry.Value == "" {
				curEntry.Value = trimmed
			} else {
				curEntry.Value += "\n" + trimmed
			}
			continue
		}

		if strings.HasPrefix(line, "[") {
			header := strings.TrimRight(line, " \t")
			if !strings.HasSuffix(header, "]") {
				return nil, errors.Newf(errors.ErrFileParse,
					"line %d: malformed section header %q", num, line).
					WithDetail("line", num)
			}
			name := strings.TrimSpace(header[1 : len(header)-1])
			if name == "" {
				return nil, errors.Newf(errors.ErrFileParse,
					"line %d: empty section name", num).
					WithDetail("line", num)
			}
			if doc.Has(name) {
				return nil, errors.Newf(errors.ErrFileParse,
					"line %d: duplicate section %q", num, name).
					WithDetail("line", num)
			}
			cur = NewSection(name)
			doc.Add(cur)
			curEntry = nil
			continue
		}

		if cur == nil {
			return nil, errors.Newf(errors.ErrFileParse,
				"line %d: content before first section header", num).
				WithDetail("line", num)
		}

		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			return nil, errors.Newf(errors.ErrFileParse,
				"line %d: expected key delimiter in %q", num, line).
				WithDetail("line", num)
		}
		key := strings.TrimSpace(line[:sep])
		if key == "" {
			return nil, errors.Newf(errors.ErrFileParse,
				"line %d: empty key", num).
				WithDetail("line", num)
		}
		if cur.Has(key) {
			return nil, errors.Newf(errors.ErrFileParse,
				"line %d: duplicate key %q in section %q", num, key, cur.Name).
				WithDetail("line", num)
		}
		cur.Set(key, strings.TrimSpace(line[sep+1:]))
		curEntry, _ = cur.entry(key)
	}

	return doc, nil
}

// entry returns the Entry struct for key, for internal mutation.
func (s *Section) entry(key string) (*Entry, bool) {
	e, ok := s.index[key]
	return e, ok
}

// Serialize renders the document canonically: sections in
// lexicographic order, keys in lexicographic order, multi-item values
// as one sub-item per line indented four spaces, a blank line after
// each section. The result is independent of parse order.
func (d *Document) Serialize() []byte {
	var b strings.Builder
	for _, name := range d.SortedNames() {
		s, _ := d.Section(name)
		b.WriteString("[")
		b.WriteString(name)
		b.WriteString("]\n")
		for _, key := range s.SortedKeys() {
			value, _ := s.Get(key)
			items := SplitValue(value)
			switch len(items) {
			case 0:
				b.WriteString(key)
				b.WriteString(" =\n")
			case 1:
				b.WriteString(key)
				b.WriteString(" = ")
				b.WriteString(items[0])
				b.WriteString("\n")
			default:
				b.WriteString(key)
				b.WriteString(" =\n")
				for _, item := range items {
					b.WriteString("    ")
					b.WriteString(item)
					b.WriteString("\n")
				}
			}
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}
