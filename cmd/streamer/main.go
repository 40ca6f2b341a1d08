package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"schwabstream/config"
	"schwabstream/internal/collector"
	"schwabstream/logger"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run collector until interrupted
	if err := collector.StartCollector(ctx, cfg, log); err != nil {
		log.Error("collector failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("collector stopped")
}
