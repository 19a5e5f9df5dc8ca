package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Error().Err(err).Msg("colormemory failed")
		os.Exit(1)
	}
}
