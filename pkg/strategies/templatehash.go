package strategies

type templateHash struct{}

func newTemplateHash(options map[string]interface{}) (Strategy, error) {
	if err := rejectUnknownOptions(NameTemplateHash, options); err != nil {
		return nil, err
	}
	return templateHash{}, nil
}

func (templateHash) Name() string { return NameTemplateHash }

// Apply skips when the revision recorded for the file at its last
// rollup equals the template's current revision, and re-applies the
// template verbatim otherwise. A template without a stable revision
// (dirty working copy, no repository) always re-applies, as does a
// file with no recorded revision.
func (templateHash) Apply(in Input) (Result, error) {
	if in.TemplateRevision != "" && in.RecordedRevision == in.TemplateRevision {
		return Result{Skip: true}, nil
	}
	return Result{Content: in.Template}, nil
}
