package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/Conceptual-Machines/music-track-generator/internal/cli"
	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/joho/godotenv"
)

// Build flags
var version = ""

func main() {
	// A missing .env is fine; the environment may already carry everything
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Create signal based context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Launch command
	cmd := cli.New(cfg, version, os.Stdin, os.Stdout)
	if err := cmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
