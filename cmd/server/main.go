// Command server runs the circles API.
//
//	server serve   [--env-file .env]   start the HTTP server (default)
//	server migrate [--env-file .env]   apply schema migrations and exit
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/circles/internal/config"
	"github.com/mmynk/circles/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "server",
		Short:         "Shared-expense circles API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file of KEY=value pairs loaded before reading the environment")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return cfg, nil
	}

	serve := newServeCmd(load)
	root.AddCommand(serve, newMigrateCmd(load))
	// Bare "server" behaves like "server serve".
	root.RunE = serve.RunE

	return root
}
