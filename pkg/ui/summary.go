// Package ui renders command results for terminals.
//
// Output format selection mirrors the usual terminal conventions:
// rich styled output on interactive color-capable terminals, plain
// text when piped or NO_COLOR is set, JSON on request.
package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arthur-debert/restamp/pkg/automation"
	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/rollup"
)

// RenderRollup renders a rollup result. FormatAuto must be resolved
// by the caller through DetectFormat.
func RenderRollup(result *rollup.Result, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(result)
	case FormatTerminal:
		return renderRollupRich(result), nil
	default:
		return renderRollupText(result), nil
	}
}

// RenderAutomation renders an automation result.
func RenderAutomation(result *automation.Result, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(result)
	case FormatTerminal:
		return renderAutomationRich(result), nil
	default:
		return renderAutomationText(result), nil
	}
}

func renderJSON(v interface{}) (string, error) {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "encoding result as JSON")
	}
	return string(blob) + "\n", nil
}

func renderRollupRich(result *rollup.Result) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Rollup") + "\n")
	b.WriteString(MutedStyle.Render(result.TemplateDir+" → "+result.TargetDir) + "\n\n")

	width := maxPathWidth(result.Files)
	for _, f := range result.Files {
		line := fmt.Sprintf("%s %-*s  %s",
			outcomeIndicator(f.Outcome), width, f.Path,
			OutcomeStyle(string(f.Outcome)).Sprint(f.Strategy))
		b.WriteString(Indent(line, 1) + "\n")
	}

	b.WriteString("\n" + Bold(countsLine(result)) + "\n")
	if result.Revision != "" {
		b.WriteString(MutedStyle.Render("Template revision: "+result.Revision) + "\n")
	}
	return b.String()
}

func renderRollupText(result *rollup.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rollup: %s -> %s\n", result.TemplateDir, result.TargetDir)
	for _, f := range result.Files {
		fmt.Fprintf(&b, "%-10s %s (%s)\n", f.Outcome, f.Path, f.Strategy)
	}
	b.WriteString(countsLine(result) + "\n")
	if result.Revision != "" {
		fmt.Fprintf(&b, "Template revision: %s\n", result.Revision)
	}
	return b.String()
}

func renderAutomationRich(result *automation.Result) string {
	var b strings.Builder
	if !result.Changed {
		b.WriteString(UnchangedIndicator + " " +
			"Project is in sync with the template, nothing to push\n")
		return b.String()
	}
	b.WriteString(WrittenIndicator + " " + Bold("Template update pushed") + "\n")
	b.WriteString(Indent(MutedStyle.Render("commit "+result.Commit), 1) + "\n")
	b.WriteString(Indent(MutedStyle.Render("branch "+result.Branch), 1) + "\n")
	if result.Rollup != nil {
		b.WriteString("\n" + Bold(countsLine(result.Rollup)) + "\n")
	}
	return b.String()
}

func renderAutomationText(result *automation.Result) string {
	var b strings.Builder
	if !result.Changed {
		b.WriteString("Project is in sync with the template, nothing to push\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Template update pushed: commit %s on branch %s\n",
		result.Commit, result.Branch)
	if result.Rollup != nil {
		b.WriteString(countsLine(result.Rollup) + "\n")
	}
	return b.String()
}

func countsLine(result *rollup.Result) string {
	return fmt.Sprintf("%d files: %d written, %d unchanged, %d skipped",
		len(result.Files),
		result.CountOf(rollup.OutcomeWritten),
		result.CountOf(rollup.OutcomeUnchanged),
		result.CountOf(rollup.OutcomeSkipped))
}

func outcomeIndicator(outcome rollup.Outcome) string {
	switch outcome {
	case rollup.OutcomeWritten:
		return WrittenIndicator
	case rollup.OutcomeUnchanged:
		return UnchangedIndicator
	case rollup.OutcomeSkipped:
		return SkippedIndicator
	default:
		return ErrorIndicator
	}
}

func maxPathWidth(files []rollup.FileResult) int {
	width := 0
	for _, f := range files {
		if len(f.Path) > width {
			width = len(f.Path)
		}
	}
	return width
}
