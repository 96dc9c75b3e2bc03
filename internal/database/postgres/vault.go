package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/repository"
)

type vaultSweepRepository struct {
	pool *pgxpool.Pool
}

// NewVaultSweepRepository creates a Postgres-backed vault sweep repository
func NewVaultSweepRepository(pool *pgxpool.Pool) repository.VaultSweep {
	return &vaultSweepRepository{pool: pool}
}

// MatureVaults flips matured=true on every locked vault row whose lock window
// has elapsed. Resolution still re-checks the window itself, so the sweep is
// an optimization that lets clients see maturity without resolving first.
func (r *vaultSweepRepository) MatureVaults(ctx context.Context, lockSeconds int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE arcade_state
		SET value = jsonb_set(value, '{matured}', 'true'::jsonb), updated_at = NOW()
		WHERE state_key = $1
		  AND COALESCE((value->>'locked_at_unix')::bigint, 0) > 0
		  AND NOT COALESCE((value->>'matured')::boolean, false)
		  AND (value->>'locked_at_unix')::bigint + $2 <= EXTRACT(EPOCH FROM NOW())::bigint`,
		domain.StateKeyVault, lockSeconds)
	if err != nil {
		return 0, fmt.Errorf("failed to mature vaults: %w", err)
	}
	return tag.RowsAffected(), nil
}
