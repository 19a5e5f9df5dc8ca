// Package commands holds the colormemory CLI.
package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colormemory/internal/config"
)

var (
	cfg      config.Config
	logLevel string
)

// Execute builds the command tree and runs it.
func Execute() error {
	cfg = config.Load()
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "colormemory",
		Short:         "Color Memory: repeat the growing sequence of colors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "trace|debug|info|warn|error")

	root.AddCommand(serveCmd(), playCmd(), migrateCmd())
	return root
}

// consoleLogs switches the global logger to human-readable stderr output.
func consoleLogs() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
