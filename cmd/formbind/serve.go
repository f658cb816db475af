package main

import (
	"context"
	"os"
	"strings"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/internal/cli"
	"github.com/aretw0/formbind/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live forms over HTTP",
	Long:  `Starts the HTTP API for live forms, with prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		redacted, _ := cmd.Flags().GetStringArray("redact")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		tui.PrintBanner(os.Stderr, strings.TrimSpace(formbind.Version))
		if err := cli.Serve(ctx, cli.ServeOptions{Addr: ":" + port, Redact: redacted}, logger); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			logger.Info("server stopped", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().StringArray("redact", nil, "Key pattern (regexp) masked in event streams; repeatable")
}
