package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()

	job := &testJob{executed: &executed}
	pool.Enqueue(job)
	pool.Enqueue(job)

	// Wait a bit for workers to process
	time.Sleep(TestWorkerProcessWaitTime * time.Millisecond)

	pool.Stop()

	if atomic.LoadInt32(&executed) != TestExpectedJobCount {
		t.Errorf("Expected %d jobs executed, got %d", TestExpectedJobCount, executed)
	}
}

type fakeLocks struct {
	acquired bool
}

func (f *fakeLocks) TryAcquire(ctx context.Context, key, holderID string, ttl time.Duration) (bool, error) {
	return f.acquired, nil
}

func (f *fakeLocks) Release(ctx context.Context, key, holderID string) error { return nil }

func (f *fakeLocks) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) (bool, error) {
	if !f.acquired {
		return false, nil
	}
	return true, fn(ctx)
}

type fakeVaultSweep struct {
	calls   int32
	matured int64
	err     error
}

func (f *fakeVaultSweep) MatureVaults(ctx context.Context, lockSeconds int64) (int64, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.matured, f.err
}

func TestVaultSweepWorkerRunsWhenLockAcquired(t *testing.T) {
	sweep := &fakeVaultSweep{matured: 3}
	w := NewVaultSweepWorker(&fakeLocks{acquired: true}, sweep, 24*time.Hour, time.Minute)

	err := w.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&sweep.calls))
}

func TestVaultSweepWorkerSkipsWhenLockContended(t *testing.T) {
	sweep := &fakeVaultSweep{}
	w := NewVaultSweepWorker(&fakeLocks{acquired: false}, sweep, 24*time.Hour, time.Minute)

	err := w.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&sweep.calls))
}

func TestVaultSweepWorkerPropagatesSweepError(t *testing.T) {
	wantErr := errors.New("db down")
	sweep := &fakeVaultSweep{err: wantErr}
	w := NewVaultSweepWorker(&fakeLocks{acquired: true}, sweep, 24*time.Hour, time.Minute)

	err := w.Process(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
