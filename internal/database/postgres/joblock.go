package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/repository"
)

type jobLockRepository struct {
	pool *pgxpool.Pool
}

// NewJobLockRepository creates a new Postgres-backed job lock store
func NewJobLockRepository(pool *pgxpool.Pool) repository.JobLock {
	return &jobLockRepository{pool: pool}
}

// TryAcquire takes or steals the lock in a single statement. The conditional
// update only fires when the existing row has expired or already belongs to
// this holder, so a live lock held by someone else stays untouched.
func (r *jobLockRepository) TryAcquire(ctx context.Context, key, holderID string, ttl time.Duration) (bool, error) {
	expiresAt := time.Now().UTC().Add(ttl)

	var acquired string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO job_locks (lock_key, holder_id, acquired_at, expires_at)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (lock_key)
		DO UPDATE SET holder_id = EXCLUDED.holder_id, acquired_at = NOW(), expires_at = EXCLUDED.expires_at
		WHERE job_locks.expires_at <= NOW() OR job_locks.holder_id = EXCLUDED.holder_id
		RETURNING lock_key`,
		key, holderID, expiresAt,
	).Scan(&acquired)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire job lock %s: %w", key, err)
	}
	return true, nil
}

func (r *jobLockRepository) Release(ctx context.Context, key, holderID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM job_locks
		WHERE lock_key = $1 AND holder_id = $2`,
		key, holderID)
	if err != nil {
		return fmt.Errorf("failed to release job lock %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLockNotHeld
	}
	return nil
}
