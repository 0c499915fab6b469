package strategies

// The four simplest strategies need no options and never parse file
// contents, which keeps them safe for binary files.

type overwrite struct{}

func newOverwrite(options map[string]interface{}) (Strategy, error) {
	if err := rejectUnknownOptions(NameOverwrite, options); err != nil {
		return nil, err
	}
	return overwrite{}, nil
}

func (overwrite) Name() string { return NameOverwrite }

// Apply returns the template verbatim. Overwrite is the implicit
// default when no binding matches a path.
func (overwrite) Apply(in Input) (Result, error) {
	return Result{Content: in.Template}, nil
}

type ifMissing struct{}

func newIfMissing(options map[string]interface{}) (Strategy, error) {
	if err := rejectUnknownOptions(NameIfMissing, options); err != nil {
		return nil, err
	}
	return ifMissing{}, nil
}

func (ifMissing) Name() string { return NameIfMissing }

// Apply keeps an existing target verbatim and falls back to the
// template only when the target does not exist.
func (ifMissing) Apply(in Input) (Result, error) {
	if in.TargetExists {
		return Result{Content: in.Target}, nil
	}
	return Result{Content: in.Template}, nil
}

type ignore struct{}

func newIgnore(options map[string]interface{}) (Strategy, error) {
	if err := rejectUnknownOptions(NameIgnore, options); err != nil {
		return nil, err
	}
	return ignore{}, nil
}

func (ignore) Name() string { return NameIgnore }

// Apply always skips: the target, if any, is left untouched and the
// template's version is discarded.
func (ignore) Apply(in Input) (Result, error) {
	return Result{Skip: true}, nil
}

type ifNewProject struct{}

func newIfNewProject(options map[string]interface{}) (Strategy, error) {
	if err := rejectUnknownOptions(NameIfNewProject, options); err != nil {
		return nil, err
	}
	return ifNewProject{}, nil
}

func (ifNewProject) Name() string { return NameIfNewProject }

// Apply writes the template only when no target file exists yet;
// after that first rollup the file is never touched again.
func (ifNewProject) Apply(in Input) (Result, error) {
	if in.TargetExists {
		return Result{Skip: true}, nil
	}
	return Result{Content: in.Template}, nil
}
