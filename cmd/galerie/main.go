package main

import (
	"os"

	"github.com/bnema/galerie/internal/infrastructure/logger"
)

func main() {
	if err := Execute(); err != nil {
		logger.Error().Err(err).Msg("galerie failed")
		os.Exit(1)
	}
}
