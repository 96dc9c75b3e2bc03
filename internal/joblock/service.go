package joblock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/repository"
)

// DefaultTTL is used when the caller passes a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Coordinator guarantees at-most-one concurrent runner per logical key.
// Lock rows expire after their TTL even if Release is never called, so a
// crashed holder cannot wedge the job forever.
type Coordinator interface {
	// TryAcquire attempts to take the lock for key on behalf of holderID.
	TryAcquire(ctx context.Context, key, holderID string, ttl time.Duration) (bool, error)

	// Release frees the lock when holderID still holds it; returns
	// ErrLockNotHeld otherwise.
	Release(ctx context.Context, key, holderID string) error

	// WithLock runs fn only when the lock is acquired, releasing afterwards.
	// Returns (false, nil) when another holder owns the lock.
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) (bool, error)
}

type coordinator struct {
	repo repository.JobLock
}

// NewCoordinator creates a new job-lock coordinator
func NewCoordinator(repo repository.JobLock) Coordinator {
	return &coordinator{repo: repo}
}

func (c *coordinator) TryAcquire(ctx context.Context, key, holderID string, ttl time.Duration) (bool, error) {
	if key == "" || holderID == "" {
		return false, fmt.Errorf("%w: lock key and holder are required", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.repo.TryAcquire(ctx, key, holderID, ttl)
}

func (c *coordinator) Release(ctx context.Context, key, holderID string) error {
	if key == "" || holderID == "" {
		return fmt.Errorf("%w: lock key and holder are required", domain.ErrInvalidInput)
	}
	return c.repo.Release(ctx, key, holderID)
}

func (c *coordinator) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) (bool, error) {
	log := logger.FromContext(ctx)
	holderID := uuid.NewString()

	acquired, err := c.TryAcquire(ctx, key, holderID, ttl)
	if err != nil {
		return false, fmt.Errorf("failed to acquire job lock %s: %w", key, err)
	}
	if !acquired {
		log.Debug("Job lock held elsewhere, skipping", "key", key)
		return false, nil
	}

	defer func() {
		if err := c.Release(ctx, key, holderID); err != nil {
			log.Warn("Failed to release job lock", "key", key, "error", err)
		}
	}()

	return true, fn(ctx)
}
