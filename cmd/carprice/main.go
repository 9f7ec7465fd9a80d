// Command carprice trains a random forest on the used-car listings CSV,
// prints the held-out error metrics and prices one example car.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ezoic/carprice/config"
	"github.com/ezoic/carprice/pkg/errors"
	"github.com/ezoic/carprice/pkg/log"
	"github.com/ezoic/carprice/pricing"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.LogError(err, "Invalid configuration")
		return 1
	}

	// ログのセットアップ (stdoutはレポート専用)
	log.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := pricing.Run(ctx, cfg, os.Stdout); err != nil {
		log.LogError(err, "Run failed")
		return 1
	}
	return 0
}
