package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/formbind/internal/cli"
	"github.com/spf13/cobra"
)

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:           "formbind",
	Short:         "formbind validates and submits declarative forms",
	Long:          `formbind loads YAML or JSON form definitions, validates and submits them, and serves live forms over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		var err error
		logger, err = cli.NewLogger(level)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
}
