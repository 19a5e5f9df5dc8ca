package commands

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colormemory/internal/db"
	"github.com/robalobadob/colormemory/internal/httpserver"
	"github.com/robalobadob/colormemory/internal/store"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/websocket game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := db.OpenAndMigrate(cfg.DBPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mem := store.NewMemoryStore()
			srv := httpserver.New(cfg, mem, sqlDB)
			log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting colormemory server")
			return srv.Start(ctx, ":"+cfg.Port)
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	return cmd
}
