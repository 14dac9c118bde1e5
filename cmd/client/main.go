package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/growthjournal/internal/buildinfo"
	"github.com/dmitrijs2005/growthjournal/internal/client/cli"
	"github.com/dmitrijs2005/growthjournal/internal/client/config"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, closer := logging.NewFileLogger(logging.FileOptions{Path: cfg.LogFile})
	defer closer.Close()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
