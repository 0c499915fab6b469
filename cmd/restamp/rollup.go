package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/restamp/pkg/logging"
	"github.com/arthur-debert/restamp/pkg/rollup"
	"github.com/arthur-debert/restamp/pkg/ui"
)

func newRollupCmd() *cobra.Command {
	var (
		setValues []string
		noInput   bool
	)

	cmd := &cobra.Command{
		Use:   "rollup TEMPLATE_DIR TARGET_DIR",
		Short: MsgRollupShort,
		Long:  MsgRollupLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.rollup")

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
				Str("target", args[1]).
				Msg("Starting rollup")
			result, err := rollup.Run(rollup.Options{
				TemplateDir:  args[0],
				TargetDir:    args[1],
				ExtraContext: extra,
				NoInput:      noInput,
			})
			if err != nil {
				return err
			}

			out, err := ui.RenderRollup(result, format)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&setValues, "set", nil, MsgFlagSet)
	cmd.Flags().BoolVar(&noInput, "no-input", false, MsgFlagNoInput)
	return cmd
}
