// main.go
//
// Entry point for quantum-game.
//
//	quantum-game serve        HTTP API + WebSocket stream + leaderboard
//	quantum-game play         single-player terminal client
//	quantum-game challenges   print or validate a challenge catalog
//
// Configuration comes from the environment (see internal/config); a few
// values can be overridden by flags.

package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("quantum-game")
		os.Exit(1)
	}
}
