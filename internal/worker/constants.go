package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Vault Sweep Worker
// ============================================================================

// Log messages for vault sweep worker operations
const (
	LogMsgVaultSweepStarting  = "Vault sweep starting"
	LogMsgVaultSweepCompleted = "Vault sweep completed"
	LogMsgVaultSweepFailed    = "Vault sweep failed"
	LogMsgVaultSweepSkipped   = "Vault sweep skipped, lock held elsewhere"
)

// JobKeyVaultSweep is the coordinator lock key for the vault sweep job.
// Every instance schedules the sweep; the lock ensures one runner per tick.
const JobKeyVaultSweep = "vault_sweep"

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
