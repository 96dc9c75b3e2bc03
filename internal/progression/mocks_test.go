package progression

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/repository"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetState(ctx context.Context, userID string) (*domain.ProgressionState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressionState), args.Error(1)
}

func (m *MockRepository) SaveState(ctx context.Context, state *domain.ProgressionState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockRepository) GetArcadeState(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArcadeStateRow), args.Error(1)
}

func (m *MockRepository) UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error {
	args := m.Called(ctx, userID, key, value)
	return args.Error(0)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Tx), args.Error(1)
}

// fakeTx backs transactional tests with an in-memory progression row so
// read-modify-write sequences behave like the real store.
type fakeTx struct {
	state      *domain.ProgressionState
	arcade     map[string][]byte
	committed  bool
	rolledBack bool
}

func newFakeTx(state *domain.ProgressionState) *fakeTx {
	return &fakeTx{state: state, arcade: make(map[string][]byte)}
}

func (t *fakeTx) GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error) {
	return nil, nil
}

func (t *fakeTx) InsertResolution(ctx context.Context, resolution *domain.Resolution) error {
	return nil
}

func (t *fakeTx) GetArcadeStateForUpdate(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error) {
	blob, ok := t.arcade[key]
	if !ok {
		return nil, nil
	}
	return &domain.ArcadeStateRow{UserID: userID, Key: key, Value: blob, UpdatedAt: time.Now()}, nil
}

func (t *fakeTx) UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error {
	t.arcade[key] = value
	return nil
}

func (t *fakeTx) GetProgressionForUpdate(ctx context.Context, userID string) (*domain.ProgressionState, error) {
	copied := *t.state
	copied.UserID = userID
	return &copied, nil
}

func (t *fakeTx) SaveProgression(ctx context.Context, state *domain.ProgressionState) error {
	*t.state = *state
	return nil
}

func (t *fakeTx) AppendConsumption(ctx context.Context, record *domain.ConsumptionRecord) error {
	return nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}
