package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/restamp/pkg/ui"
)

//go:embed docs/strategies.md
var strategiesDoc string

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: MsgStrategiesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(strategiesDoc, format))
			return nil
		},
	}
}

// renderMarkdown renders markdown for rich terminals and falls back
// to the raw document everywhere else.
func renderMarkdown(content string, format ui.Format) string {
	if format != ui.FormatTerminal {
		return content
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
