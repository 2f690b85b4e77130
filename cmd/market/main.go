// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command market is the terminal client of the Toikana marketplace.
//
// Configuration comes from MARKET_* environment variables; see
// [config.Client]. Logs go to stderr at warn level unless MARKET_DEBUG is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/toikana/marketplace/internal/cmd/market"
	"github.com/toikana/marketplace/internal/platform/config"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := market.New(ctx, cfg, os.Stdout, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := app.Run(ctx, os.Args[1:])
	if err := app.Close(); err != nil {
		log.Warn("state_close_failed", slog.Any("error", err))
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, flag.ErrHelp):
	case errors.Is(runErr, market.ErrDenied):
		os.Exit(3)
	case errors.Is(runErr, market.ErrUsage):
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(2)
	default:
		log.Debug("command_failed", slog.Any("error", runErr))
		os.Exit(1)
	}
}
