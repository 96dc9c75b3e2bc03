package joblock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/arcade/internal/domain"
)

// memoryLockRepo implements repository.JobLock in memory with real TTL
// semantics so coordinator behavior can be tested without a database.
type memoryLockRepo struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	now   func() time.Time
}

type memoryLock struct {
	holderID  string
	expiresAt time.Time
}

func newMemoryLockRepo() *memoryLockRepo {
	return &memoryLockRepo{locks: make(map[string]memoryLock), now: time.Now}
}

func (r *memoryLockRepo) TryAcquire(ctx context.Context, key, holderID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.locks[key]
	if ok && existing.expiresAt.After(r.now()) && existing.holderID != holderID {
		return false, nil
	}
	r.locks[key] = memoryLock{holderID: holderID, expiresAt: r.now().Add(ttl)}
	return true, nil
}

func (r *memoryLockRepo) Release(ctx context.Context, key, holderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.locks[key]
	if !ok || existing.holderID != holderID {
		return domain.ErrLockNotHeld
	}
	delete(r.locks, key)
	return nil
}

func TestTryAcquireMutualExclusion(t *testing.T) {
	repo := newMemoryLockRepo()
	coord := NewCoordinator(repo)
	ctx := context.Background()

	acquired, err := coord.TryAcquire(ctx, "re-eval", "holder-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = coord.TryAcquire(ctx, "re-eval", "holder-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired, "second holder must not acquire a held lock")

	// A different key is independent.
	acquired, err = coord.TryAcquire(ctx, "other", "holder-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestExpiredLockIsStealable(t *testing.T) {
	repo := newMemoryLockRepo()
	current := time.Now()
	repo.now = func() time.Time { return current }

	coord := NewCoordinator(repo)
	ctx := context.Background()

	acquired, err := coord.TryAcquire(ctx, "re-eval", "crashed-holder", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	current = current.Add(2 * time.Minute)

	acquired, err = coord.TryAcquire(ctx, "re-eval", "new-holder", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "expired lock must be stealable without a release")
}

func TestReleaseByNonHolderFails(t *testing.T) {
	repo := newMemoryLockRepo()
	coord := NewCoordinator(repo)
	ctx := context.Background()

	_, err := coord.TryAcquire(ctx, "re-eval", "holder-a", time.Minute)
	require.NoError(t, err)

	err = coord.Release(ctx, "re-eval", "holder-b")
	assert.ErrorIs(t, err, domain.ErrLockNotHeld)

	assert.NoError(t, coord.Release(ctx, "re-eval", "holder-a"))
}

func TestWithLockRunsExactlyOneRunner(t *testing.T) {
	repo := newMemoryLockRepo()
	coord := NewCoordinator(repo)
	ctx := context.Background()

	var mu sync.Mutex
	runs := 0
	block := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			ran, err := coord.WithLock(ctx, "batch", time.Minute, func(ctx context.Context) error {
				mu.Lock()
				runs++
				mu.Unlock()
				<-block
				return nil
			})
			require.NoError(t, err)
			results[slot] = ran
		}(i)
	}

	// Give both goroutines a chance to contend, then unblock the winner.
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	assert.Equal(t, 1, runs, "exactly one runner may execute per key")
	assert.NotEqual(t, results[0], results[1])
}

func TestWithLockPropagatesError(t *testing.T) {
	coord := NewCoordinator(newMemoryLockRepo())

	wantErr := errors.New("job failed")
	ran, err := coord.WithLock(context.Background(), "batch", time.Minute, func(ctx context.Context) error {
		return wantErr
	})
	assert.True(t, ran)
	assert.ErrorIs(t, err, wantErr)
}

func TestValidation(t *testing.T) {
	coord := NewCoordinator(newMemoryLockRepo())

	_, err := coord.TryAcquire(context.Background(), "", "h", time.Minute)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = coord.Release(context.Background(), "key", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
