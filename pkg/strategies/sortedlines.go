package strategies

import (
	"regexp"
	"sort"

	"github.com/arthur-debert/restamp/pkg/lineset"
	"github.com/arthur-debert/restamp/pkg/newline"
)

// DefaultCommentPattern matches the comment lines recognized by
// sorted_unique_lines unless the binding overrides it.
const DefaultCommentPattern = `^#`

type sortedUniqueLines struct {
	comment *regexp.Regexp
}

func newSortedUniqueLines(options map[string]interface{}) (Strategy, error) {
	if err := rejectUnknownOptions(NameSortedUniqueLines, options, "comment_pattern"); err != nil {
		return nil, err
	}
	comment, err := optionPattern(NameSortedUniqueLines, "comment_pattern", options, DefaultCommentPattern)
	if err != nil {
		return nil, err
	}
	return &sortedUniqueLines{comment: comment}, nil
}

func (s *sortedUniqueLines) Name() string { return NameSortedUniqueLines }

// Apply unions the body lines of both sides, deduplicated by exact
// line text, sorted by ordinal comparison. The header block comes from
// the template when it has one, else from the target; attached
// comments travel with their lines and union when both sides carry
// the same line.
func (s *sortedUniqueLines) Apply(in Input) (Result, error) {
	tpl := lineset.Parse(in.Template, s.comment)

	var tgt *lineset.Document
	if in.TargetExists {
		tgt = lineset.Parse(in.Target, s.comment)
	}

	merged := &lineset.Document{Header: tpl.Header}
	if len(merged.Header) == 0 && tgt != nil {
		merged.Header = tgt.Header
	}

	index := make(map[string]int)
	addItems := func(doc *lineset.Document) {
		for _, item := range doc.Items {
			if at, seen := index[item.Line]; seen {
				merged.Items[at].Comments = unionLines(merged.Items[at].Comments, item.Comments)
				continue
			}
			index[item.Line] = len(merged.Items)
			merged.Items = append(merged.Items, lineset.Item{
				Line:     item.Line,
				Comments: unionLines(nil, item.Comments),
			})
		}
		merged.Trailing = unionLines(merged.Trailing, doc.Trailing)
	}
	addItems(tpl)
	if tgt != nil {
		addItems(tgt)
	}

	sort.Slice(merged.Items, func(i, j int) bool {
		return merged.Items[i].Line < merged.Items[j].Line
	})
	sort.Strings(merged.Trailing)

	var target []byte
	if in.TargetExists {
		target = in.Target
	}
	style := newline.DetectPreferred(target, in.Template)
	return Result{Content: newline.Normalize(merged.Serialize(), style)}, nil
}

// unionLines appends the lines of add not already present in base,
// preserving encounter order.
func unionLines(base, add []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, line := range base {
		seen[line] = struct{}{}
	}
	out := base
	for _, line := range add {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
