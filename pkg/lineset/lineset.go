// Package lineset models line-oriented files as an optional leading
// comment block (header) plus a body of discrete lines, each carrying
// the comment lines that precede it.
//
// The header is the maximal leading run of comment lines, ended by the
// first blank or non-comment line. It is kept verbatim and unsorted;
// body lines may be reordered freely and their comments travel with
// them. Comments after the last body line are kept as a trailing
// block.
package lineset

import (
	"regexp"
	"strings"
)

// Item is a body line plus the comment lines attached to it.
type Item struct {
	Line     string
	Comments []string
}

// Document is a parsed line-set file.
type Document struct {
	Header   []string
	Items    []Item
	Trailing []string
}

// Parse reads blob into a Document. comment decides which lines are
// comment lines. Any text parses; blank body lines are discarded and
// comment lines attach to the next body line.
func Parse(blob []byte, comment *regexp.Regexp) *Document {
	doc := &Document{}

	text := strings.ReplaceAll(string(blob), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	// Split leaves a trailing empty element for newline-terminated text
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	inHeader := true
	var pending []string
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""

		if inHeader {
			if !blank && comment.MatchString(line) {
				doc.Header = append(doc.Header, line)
				continue
			}
			inHeader = false
			if blank {
				continue
			}
		}

		if blank {
			continue
		}
		if comment.MatchString(line) {
			pending = append(pending, line)
			continue
		}
		doc.Items = append(doc.Items, Item{Line: line, Comments: pending})
		pending = nil
	}
	doc.Trailing = pending

	return doc
}

// Serialize renders the document with LF terminators: header, one
// blank line after a non-empty header, each item's comments directly
// before its line, then any trailing comments. A leading blank line is
// emitted when there is no header but the first item carries comments,
// so that reparsing the output does not mistake them for a header.
func (d *Document) Serialize() []byte {
	var b strings.Builder

	if len(d.Header) > 0 {
		for _, line := range d.Header {
			b.WriteString(line)
			b.WriteString("\n")
		}
		if len(d.Items) > 0 || len(d.Trailing) > 0 {
			b.WriteString("\n")
		}
	} else if len(d.Items) > 0 && len(d.Items[0].Comments) > 0 {
		b.WriteString("\n")
	}

	for _, item := range d.Items {
		for _, c := range item.Comments {
			b.WriteString(c)
			b.WriteString("\n")
		}
		b.WriteString(item.Line)
		b.WriteString("\n")
	}

	for _, c := range d.Trailing {
		b.WriteString(c)
		b.WriteString("\n")
	}

	return []byte(b.String())
}
