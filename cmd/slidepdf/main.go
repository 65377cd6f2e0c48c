// slidepdf converts HTML slide decks, images and text files to PDF.
//
// Usage:
//
//	slidepdf slides [--dump DIR] <deck.html>
//	slidepdf convert [options] <file>...
//	slidepdf transcode --to FORMAT <image>...
//	slidepdf info <file.pdf>...
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("slidepdf failed")
		stop()
		os.Exit(1)
	}
}
