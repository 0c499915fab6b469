package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/restamp/internal/version"
	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/logging"
	"github.com/arthur-debert/restamp/pkg/ui"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "restamp",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			logging.LogCommand(cmd.Name(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given: show help but exit non-zero.
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("format", "auto", MsgFlagFormat)

	rootCmd.AddCommand(newRollupCmd())
	rootCmd.AddCommand(newAutomationCmd())
	rootCmd.AddCommand(newStrategiesCmd())
	rootCmd.AddCommand(newGenconfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// outputFormat resolves the --format flag, detecting terminal
// capabilities for auto.
func outputFormat(cmd *cobra.Command) (ui.Format, error) {
	raw, err := cmd.Flags().GetString("format")
	if err != nil {
		raw = "auto"
	}
	format, err := ui.ParseFormat(raw)
	if err != nil {
		return ui.FormatAuto, errors.Wrapf(err, errors.ErrInvalidInput, "--format %q", raw)
	}
	if format == ui.FormatAuto {
		format = ui.DetectFormat(os.Stdout)
	}
	return format, nil
}

// parseSetValues turns repeated --set key=value flags into a context
// map.
func parseSetValues(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ctx := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"--set %q is not of the key=value form", v)
		}
		ctx[key] = value
	}
	return ctx, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "restamp version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
