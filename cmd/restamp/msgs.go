package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep projects in sync with the template they were created from"
	MsgRollupShort     = "Apply a template onto a target project"
	MsgAutomationShort = "Clone, roll up, commit, and push a template update"
	MsgStrategiesShort = "Describe the built-in merge strategies"
	MsgGenconfigShort  = "Print the built-in default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat      = "Output format: auto, term, text, or json"
	MsgFlagSet         = "Set a context variable (key=value, repeatable)"
	MsgFlagNoInput     = "Suppress informational context output"
	MsgFlagBranch      = "Remote branch to push the update to (default: the cloned branch)"
	MsgFlagAuthor      = "Commit author, \"Name <email>\" form"
	MsgFlagTemplateRef = "Template branch to check out"
	MsgFlagProjectRef  = "Project branch to check out"
)

// Long messages (multi-line)
const (
	MsgRootLong = `restamp re-applies an evolving project template onto the projects
created from it. Every file rendered from the template is merged into
the target with a configurable strategy, so template updates roll out
without clobbering what the projects changed locally.`

	MsgRollupLong = `Rollup renders TEMPLATE_DIR against the target's context and merges
every rendered file into TARGET_DIR. Merge strategies are resolved per
path from the template's restamp.yaml; files that exist only in the
target are never touched.`

	MsgAutomationLong = `Automation clones the template and the project, runs a
non-interactive rollup, and, when the rollup changed anything, commits
all changes and pushes them to the project remote. Meant to run
unattended on a schedule.`

	MsgGenconfigLong = `Genconfig prints the configuration restamp uses when a template has
no restamp.yaml. It is a starting point for writing one.`
)
