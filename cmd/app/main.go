package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tradepulse/arcade/internal/arcade"
	"github.com/tradepulse/arcade/internal/config"
	"github.com/tradepulse/arcade/internal/database"
	"github.com/tradepulse/arcade/internal/database/postgres"
	"github.com/tradepulse/arcade/internal/joblock"
	"github.com/tradepulse/arcade/internal/ledger"
	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/progression"
	"github.com/tradepulse/arcade/internal/scheduler"
	"github.com/tradepulse/arcade/internal/server"
	"github.com/tradepulse/arcade/internal/tables"
	"github.com/tradepulse/arcade/internal/worker"
)

const (
	dbMaxConns        = 10
	dbMaxConnIdle     = 5 * time.Minute
	dbMaxConnLife     = 30 * time.Minute
	shutdownTimeout   = 10 * time.Second
	vaultSweepLockTTL = 2 * time.Minute
	poolWorkers       = 2
	poolQueueSize     = 16
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logCfg := logger.ProductionConfig()
	logCfg.Level = cfg.LogLevel
	logger.InitLogger(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxConnIdle, dbMaxConnLife)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.MigrateUp(ctx, dbPool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	registry, err := tables.LoadRegistry(cfg.OutcomeTablesPath)
	if err != nil {
		slog.Error("Failed to load outcome tables", "error", err, "path", cfg.OutcomeTablesPath)
		os.Exit(1)
	}

	resolutionRepo := postgres.NewResolutionRepository(dbPool)
	progressionRepo := postgres.NewProgressionRepository(dbPool)
	ledgerRepo := postgres.NewLedgerRepository(dbPool)
	jobLockRepo := postgres.NewJobLockRepository(dbPool)
	vaultRepo := postgres.NewVaultSweepRepository(dbPool)

	arcadeCfg := arcade.DefaultConfig()
	arcadeCfg.Profile = cfg.Profile
	arcadeCfg.PityCap = cfg.PityCap
	arcadeCfg.PityFloor = cfg.PityFloor
	arcadeCfg.ClaimXP = uint64(cfg.ClaimXP)
	arcadeCfg.WheelShardCost = cfg.WheelShardCost
	arcadeCfg.DraftOffers = cfg.DraftOffers
	arcadeCfg.VaultLock = time.Duration(cfg.VaultLockHours) * time.Hour
	arcadeCfg.MissionWindow = cfg.MissionWindow

	progCfg := progression.Config{
		TierBaseXP:  uint64(cfg.TierBaseXP),
		MaxTier:     cfg.MaxTier,
		MaxTierStep: cfg.MaxTierStep,
	}

	arcadeService, err := arcade.NewService(resolutionRepo, progressionRepo, registry, arcadeCfg, progCfg)
	if err != nil {
		slog.Error("Failed to create arcade service", "error", err)
		os.Exit(1)
	}
	progressionService := progression.NewService(progressionRepo, progCfg)
	ledgerService := ledger.NewService(ledgerRepo)
	lockCoordinator := joblock.NewCoordinator(jobLockRepo)

	// Background vault maturation sweep, one runner per tick across instances.
	pool := worker.NewPool(poolWorkers, poolQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.VaultSweepInterval, worker.NewVaultSweepWorker(
		lockCoordinator, vaultRepo, time.Duration(cfg.VaultLockHours)*time.Hour, vaultSweepLockTTL))

	trustedProxies := splitCSV(os.Getenv("TRUSTED_PROXIES"))
	srv := server.NewServer(cfg.Port, cfg.APIKey, trustedProxies, dbPool, arcadeService, progressionService, ledgerService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sched.Stop()
	pool.Stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Shutdown complete")
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
