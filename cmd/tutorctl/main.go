package main

import (
	"fmt"
	"os"

	"rag-tutor/internal/app"
	"rag-tutor/internal/cli"
	"rag-tutor/internal/config"
	"rag-tutor/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var container *app.Container
	cli.Configure(func() error {
		c, err := app.NewContainer(cfg, logger.Get())
		if err != nil {
			return err
		}
		container = c
		cli.SetServices(c.Ingest, c.Retrieval)
		return nil
	}, cfg.Ingest.WatchExtensions)

	err = cli.Execute()
	if container != nil {
		_ = container.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
