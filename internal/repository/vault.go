package repository

import "context"

// VaultSweep defines the batch maintenance operation for time vaults. It is
// separate from Progression because only the background sweep uses it.
type VaultSweep interface {
	// MatureVaults marks every locked vault whose lock window of lockSeconds
	// has elapsed as matured. Returns the number of rows updated.
	MatureVaults(ctx context.Context, lockSeconds int64) (int64, error)
}
