package main

import (
	"github.com/aretw0/formbind/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <definition>",
	Short: "Export the model tree of a form as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunGraph(cmd.Context(), cmd.OutOrStdout(), args[0], logger)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
