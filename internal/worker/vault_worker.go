package worker

import (
	"context"
	"time"

	"github.com/tradepulse/arcade/internal/joblock"
	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/metrics"
	"github.com/tradepulse/arcade/internal/repository"
)

// VaultSweepWorker periodically marks matured time vaults. It runs under the
// job-lock coordinator so that only one instance sweeps per interval.
type VaultSweepWorker struct {
	locks    joblock.Coordinator
	vaults   repository.VaultSweep
	lockFor  time.Duration
	sweepTTL time.Duration
}

// NewVaultSweepWorker creates a new VaultSweepWorker. lockFor is the vault
// lock window; sweepTTL bounds how long a crashed sweeper can hold the lock.
func NewVaultSweepWorker(locks joblock.Coordinator, vaults repository.VaultSweep, lockFor, sweepTTL time.Duration) *VaultSweepWorker {
	return &VaultSweepWorker{
		locks:    locks,
		vaults:   vaults,
		lockFor:  lockFor,
		sweepTTL: sweepTTL,
	}
}

// Process implements the Job interface
func (w *VaultSweepWorker) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	ran, err := w.locks.WithLock(ctx, JobKeyVaultSweep, w.sweepTTL, func(ctx context.Context) error {
		log.Info(LogMsgVaultSweepStarting)
		matured, err := w.vaults.MatureVaults(ctx, int64(w.lockFor.Seconds()))
		if err != nil {
			log.Error(LogMsgVaultSweepFailed, "error", err)
			return err
		}
		log.Info(LogMsgVaultSweepCompleted, "matured", matured)
		return nil
	})
	if err != nil {
		return err
	}
	if !ran {
		metrics.JobLocksContended.WithLabelValues(JobKeyVaultSweep).Inc()
		log.Debug(LogMsgVaultSweepSkipped)
		return nil
	}
	metrics.JobLocksAcquired.WithLabelValues(JobKeyVaultSweep).Inc()
	return nil
}
