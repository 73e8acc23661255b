package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/image-gallery/internal/app"
	"github.com/samvad-hq/image-gallery/internal/config"
	"github.com/samvad-hq/image-gallery/internal/logger"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, app.ErrLoadFailed) {
			fmt.Fprintf(os.Stderr, "gallery failed: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.InfoObj("gallery starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gallery, err := app.NewGallery(ctx, cfg, log, os.Stdout)
	if err != nil {
		log.ErrorObj("failed to initialize gallery", "error", err)
		return err
	}

	return gallery.Run(ctx)
}
