package strategies

import (
	"regexp"
	"sort"
	"strings"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/newline"
	"github.com/arthur-debert/restamp/pkg/sections"
)

// sectionKeyRule is one compiled merge rule. Keys is nil for
// section-level rules.
type sectionKeyRule struct {
	Sections *regexp.Regexp
	Keys     *regexp.Regexp
}

func (r sectionKeyRule) matchSection(name string) bool {
	return r.Sections.MatchString(name)
}

func (r sectionKeyRule) match(section, key string) bool {
	return r.Sections.MatchString(section) && r.Keys.MatchString(key)
}

// MergeConfig holds the three ordered rule lists governing a
// structured-section merge. Rules are checked in list order and the
// first match governs, so overlapping patterns behave predictably.
type MergeConfig struct {
	MergeRequirements []sectionKeyRule
	PreserveKeys      []sectionKeyRule
	PreserveSections  []sectionKeyRule
}

func (c *MergeConfig) preserveSection(name string) bool {
	for _, rule := range c.PreserveSections {
		if rule.matchSection(name) {
			return true
		}
	}
	return false
}

func (c *MergeConfig) preserveKey(section, key string) bool {
	for _, rule := range c.PreserveKeys {
		if rule.match(section, key) {
			return true
		}
	}
	return false
}

func (c *MergeConfig) mergeRequirements(section, key string) bool {
	for _, rule := range c.MergeRequirements {
		if rule.match(section, key) {
			return true
		}
	}
	return false
}

type sectionsMerge struct {
	config MergeConfig
}

func newSectionsMerge(options map[string]interface{}) (Strategy, error) {
	if err := rejectUnknownOptions(NameSectionsMerge, options,
		"merge_requirements", "preserve_keys", "preserve_sections"); err != nil {
		return nil, err
	}

	mergeReq, err := optionRuleList(NameSectionsMerge, "merge_requirements", options, true)
	if err != nil {
		return nil, err
	}
	preserveKeys, err := optionRuleList(NameSectionsMerge, "preserve_keys", options, true)
	if err != nil {
		return nil, err
	}
	preserveSections, err := optionRuleList(NameSectionsMerge, "preserve_sections", options, false)
	if err != nil {
		return nil, err
	}

	return &sectionsMerge{config: MergeConfig{
		MergeRequirements: mergeReq,
		PreserveKeys:      preserveKeys,
		PreserveSections:  preserveSections,
	}}, nil
}

func (s *sectionsMerge) Name() string { return NameSectionsMerge }

// Apply builds a new document from the template document T and the
// target document G. Preserve-section rules copy G's section whole;
// preserve-key rules keep G's value; merge-requirement rules union the
// two requirement lists with the target winning name collisions; any
// other key takes T's value when T has it. Sections or keys present
// only in G are copied through unchanged, so target-side additions are
// never dropped.
func (s *sectionsMerge) Apply(in Input) (Result, error) {
	tpl, err := sections.Parse(in.Template)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrFileParse,
			"template %s", in.Path)
	}

	tgt := sections.NewDocument()
	if in.TargetExists {
		tgt, err = sections.Parse(in.Target)
		if err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrFileParse,
				"target %s", in.Path)
		}
	}

	merged := sections.NewDocument()
	for _, name := range sectionNames(tpl, tgt) {
		tplSec, inTpl := tpl.Section(name)
		tgtSec, inTgt := tgt.Section(name)

		if inTgt && s.config.preserveSection(name) {
			merged.Add(tgtSec.Copy())
			continue
		}
		if !inTpl {
			merged.Add(tgtSec.Copy())
			continue
		}

		out := sections.NewSection(name)
		for _, key := range sectionKeys(tplSec, tgtSec) {
			tplVal, inTplSec := tplSec.Get(key)
			var tgtVal string
			inTgtSec := false
			if inTgt {
				tgtVal, inTgtSec = tgtSec.Get(key)
			}

			switch {
			case inTgtSec && s.config.preserveKey(name, key):
				out.Set(key, tgtVal)
			case s.config.mergeRequirements(name, key):
				out.Set(key, unionRequirements(tplVal, tgtVal))
			case inTplSec:
				out.Set(key, tplVal)
			default:
				out.Set(key, tgtVal)
			}
		}
		merged.Add(out)
	}

	var target []byte
	if in.TargetExists {
		target = in.Target
	}
	style := newline.DetectPreferred(target, in.Template)
	return Result{Content: newline.Normalize(merged.Serialize(), style)}, nil
}

// sectionNames lists template section names first, then target-only
// names, in their respective encounter orders.
func sectionNames(tpl, tgt *sections.Document) []string {
	names := tpl.Names()
	for _, name := range tgt.Names() {
		if !tpl.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

func sectionKeys(tplSec, tgtSec *sections.Section) []string {
	var keys []string
	if tplSec != nil {
		keys = append(keys, tplSec.Keys()...)
	}
	if tgtSec != nil {
		for _, key := range tgtSec.Keys() {
			if tplSec == nil || !tplSec.Has(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// unionRequirements merges two requirement lists keyed by
// case-insensitive requirement name. The target's sub-item wins a name
// collision whole, keeping its pinned constraint and casing; the
// result is sorted case-sensitively by full sub-item text.
func unionRequirements(tplVal, tgtVal string) string {
	tgtItems := sections.SplitValue(tgtVal)
	tplItems := sections.SplitValue(tplVal)

	have := make(map[string]struct{}, len(tgtItems))
	for _, item := range tgtItems {
		have[strings.ToLower(sections.RequirementName(item))] = struct{}{}
	}

	wanted := tgtItems
	for _, item := range tplItems {
		name := strings.ToLower(sections.RequirementName(item))
		if _, exists := have[name]; exists {
			continue
		}
		wanted = append(wanted, item)
	}

	sort.Strings(wanted)
	return sections.JoinValues(wanted)
}
