package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/restamp/pkg/automation"
	"github.com/arthur-debert/restamp/pkg/logging"
	"github.com/arthur-debert/restamp/pkg/ui"
)

func newAutomationCmd() *cobra.Command {
	var (
		setValues   []string
		branch      string
		author      string
		templateRef string
		projectRef  string
	)

	cmd := &cobra.Command{
		Use:   "automation TEMPLATE_URL PROJECT_URL",
		Short: MsgAutomationShort,
		Long:  MsgAutomationLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.automation")

			extra, err := parseSetValues(setValues)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			logger.Info().
				Str("template", args[0]).
				Str("project", args[1]).
				Msg("Starting automation run")
			result, err := automation.Run(automation.Options{
				TemplateURL:  args[0],
				ProjectURL:   args[1],
				TemplateRef:  templateRef,
				ProjectRef:   projectRef,
				Branch:       branch,
				Author:       author,
				ExtraContext: extra,
			})
			if err != nil {
				return err
			}

			out, err := ui.RenderAutomation(result, format)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&setValues, "set", nil, MsgFlagSet)
	cmd.Flags().StringVar(&branch, "branch", "", MsgFlagBranch)
	cmd.Flags().StringVar(&author, "author", "", MsgFlagAuthor)
	cmd.Flags().StringVar(&templateRef, "template-ref", "", MsgFlagTemplateRef)
	cmd.Flags().StringVar(&projectRef, "project-ref", "", MsgFlagProjectRef)
	return cmd
}
