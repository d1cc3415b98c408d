package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbutler/war-machine/internal/config"
	"github.com/mbutler/war-machine/internal/logger"
	"github.com/mbutler/war-machine/internal/sim"
	"github.com/mbutler/war-machine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting world simulator",
		"world", cfg.WorldName,
		"environment", cfg.Environment,
		"turn_interval", cfg.TurnInterval)

	var store storage.Store
	if cfg.RedisURL != "" {
		rs, err := storage.NewRedisStore(cfg.RedisURL, cfg.WorldName, log)
		if err != nil {
			logger.WithError(log, err).Error("Failed to initialize Redis storage")
			os.Exit(1)
		}
		waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := rs.WaitForConnection(waitCtx); err != nil {
			waitCancel()
			logger.WithError(log, err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
		waitCancel()
		store = rs
		log.Info("Using Redis storage")
	} else {
		fs, err := storage.NewFileStore(cfg.DataDir, cfg.WorldName, log)
		if err != nil {
			logger.WithError(log, err).Error("Failed to initialize file storage")
			os.Exit(1)
		}
		store = fs
		log.Info("Using file storage", "dir", cfg.DataDir)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, savedAt, err := sim.LoadOrCreate(ctx, cfg, store, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load world")
		os.Exit(1)
	}

	engine := sim.NewEngine(w, savedAt, store, cfg, log)
	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(log, err).Error("Simulation halted")
		os.Exit(1)
	}
	log.Info("Simulation stopped")
}
