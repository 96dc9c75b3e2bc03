package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/tradepulse/arcade/internal/config"
	"github.com/tradepulse/arcade/internal/database"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPool(cfg.GetDBConnString(), 2, time.Minute, 5*time.Minute)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	switch direction {
	case "up":
		err = database.MigrateUp(ctx, pool)
	case "down":
		err = database.MigrateDown(ctx, pool)
	default:
		slog.Error("Unknown direction, expected up or down", "direction", direction)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Migration failed", "direction", direction, "error", err)
		os.Exit(1)
	}
	slog.Info("Migration complete", "direction", direction)
}
