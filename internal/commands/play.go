package commands

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colormemory/internal/audio/speaker"
	"github.com/robalobadob/colormemory/internal/score"
	"github.com/robalobadob/colormemory/internal/session"
	"github.com/robalobadob/colormemory/internal/terminal"
)

func playCmd() *cobra.Command {
	var (
		home string
		mute bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			consoleLogs()
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".colormemory")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var spk session.Speaker
			if !mute {
				spk = speaker.New()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return terminal.Run(ctx, terminal.Options{
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				Scores:      score.New(score.NewFileKV(filepath.Join(home, "best.json"))),
				Speaker:     spk,
				Muted:       mute,
				MinInterval: cfg.RateLimit,
			})
		},
	}
	cmd.Flags().StringVar(&home, "home", "", "data dir (default ~/.colormemory)")
	cmd.Flags().BoolVar(&mute, "mute", false, "start with sound off")
	return cmd
}
