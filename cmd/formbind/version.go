package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/formbind"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of formbind",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "formbind version %s\n", strings.TrimSpace(formbind.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
