package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/restamp/pkg/config"
)

func newGenconfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genconfig",
		Short: MsgGenconfigShort,
		Long:  MsgGenconfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultsContent())
			return nil
		},
	}
}
