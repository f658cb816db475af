package main

import (
	"github.com/aretw0/formbind/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition>",
	Short: "Check a form definition and validate its initial values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunValidate(cmd.Context(), cmd.OutOrStdout(), args[0], logger)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
