package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbutler/war-machine/internal/config"
	"github.com/mbutler/war-machine/internal/logger"
	"github.com/mbutler/war-machine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	var store storage.Store
	if cfg.RedisURL != "" {
		rs, err := storage.NewRedisStore(cfg.RedisURL, cfg.WorldName, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize Redis storage: %v\n", err)
			os.Exit(1)
		}
		store = rs
	} else {
		fs, err := storage.NewFileStore(cfg.DataDir, cfg.WorldName, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize file storage: %v\n", err)
			os.Exit(1)
		}
		store = fs
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not reach storage. Is the simulator running?\n%v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewChronicleUI(store, cfg.WorldName),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
