package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/songbook/internal/client/cli"
	"github.com/dmitrijs2005/songbook/internal/client/config"
	"github.com/dmitrijs2005/songbook/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	// stdout belongs to the REPL
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx, os.Stdin)

}
