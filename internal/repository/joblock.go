package repository

import (
	"context"
	"time"
)

// JobLock defines storage for the job-lock coordinator. One row per logical
// key; rows expire after their TTL even if never released.
type JobLock interface {
	// TryAcquire attempts to take the lock for key. Returns true when the
	// caller now holds it. An expired lock is stealable.
	TryAcquire(ctx context.Context, key, holderID string, ttl time.Duration) (bool, error)

	// Release frees the lock if holderID still holds it.
	Release(ctx context.Context, key, holderID string) error
}
