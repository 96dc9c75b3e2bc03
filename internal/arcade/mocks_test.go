package arcade

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/repository"
)

// memStore is an in-memory repository implementing both the Resolution and
// Progression interfaces with staged transactions, so the resolve path's
// commit/rollback semantics are exercised for real.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	resolutions map[string]*domain.Resolution
	state       map[string]*domain.ArcadeStateRow
	progression map[string]*domain.ProgressionState
	ledger      []domain.ConsumptionRecord

	// hideReads makes the next N GetResolution calls miss, simulating the
	// visibility window a losing concurrent claim races through.
	hideReads int
}

func newMemStore() *memStore {
	return &memStore{
		resolutions: make(map[string]*domain.Resolution),
		state:       make(map[string]*domain.ArcadeStateRow),
		progression: make(map[string]*domain.ProgressionState),
	}
}

func resKey(userID string, module domain.Module, actionID string) string {
	return userID + "|" + string(module) + "|" + actionID
}

func stateKey(userID, key string) string {
	return userID + "|" + key
}

func (m *memStore) GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideReads > 0 {
		m.hideReads--
		return nil, nil
	}
	if res, ok := m.resolutions[resKey(userID, module, actionID)]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetResolutionsByUser(ctx context.Context, userID string, limit int) ([]domain.Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Resolution
	for _, res := range m.resolutions {
		if res.UserID == userID {
			out = append(out, *res)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) GetState(ctx context.Context, userID string) (*domain.ProgressionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.progression[userID]; ok {
		cp := *state
		return &cp, nil
	}
	return &domain.ProgressionState{UserID: userID}, nil
}

func (m *memStore) SaveState(ctx context.Context, state *domain.ProgressionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.progression[state.UserID] = &cp
	return nil
}

func (m *memStore) GetArcadeState(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.state[stateKey(userID, key)]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state[stateKey(userID, key)] = &domain.ArcadeStateRow{
		UserID:    userID,
		Key:       key,
		Value:     append([]byte(nil), value...),
		UpdatedAt: time.Now(),
	}
	return nil
}

func (m *memStore) BeginTx(ctx context.Context) (repository.Tx, error) {
	return &memTx{
		store:       m,
		resolutions: make(map[string]*domain.Resolution),
		state:       make(map[string][]byte),
		progression: make(map[string]*domain.ProgressionState),
	}, nil
}

func (m *memStore) ledgerRows() []domain.ConsumptionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ConsumptionRecord(nil), m.ledger...)
}

// memTx stages writes and applies them on Commit, discarding on Rollback.
type memTx struct {
	store  *memStore
	closed bool

	resolutions map[string]*domain.Resolution
	state       map[string][]byte
	progression map[string]*domain.ProgressionState
	appends     []domain.ConsumptionRecord
}

var errTxClosed = errors.New("tx is closed")

func (t *memTx) GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error) {
	if res, ok := t.resolutions[resKey(userID, module, actionID)]; ok {
		cp := *res
		return &cp, nil
	}
	return t.store.GetResolution(ctx, userID, module, actionID)
}

func (t *memTx) InsertResolution(ctx context.Context, resolution *domain.Resolution) error {
	key := resKey(resolution.UserID, resolution.Module, resolution.ActionID)
	if _, ok := t.resolutions[key]; ok {
		return domain.ErrDuplicateRecord
	}
	if existing, _ := t.store.GetResolution(ctx, resolution.UserID, resolution.Module, resolution.ActionID); existing != nil {
		return domain.ErrDuplicateRecord
	}
	cp := *resolution
	t.resolutions[key] = &cp
	return nil
}

func (t *memTx) GetArcadeStateForUpdate(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error) {
	if value, ok := t.state[stateKey(userID, key)]; ok {
		return &domain.ArcadeStateRow{UserID: userID, Key: key, Value: value}, nil
	}
	return t.store.GetArcadeState(ctx, userID, key)
}

func (t *memTx) UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error {
	t.state[stateKey(userID, key)] = append([]byte(nil), value...)
	return nil
}

func (t *memTx) GetProgressionForUpdate(ctx context.Context, userID string) (*domain.ProgressionState, error) {
	if state, ok := t.progression[userID]; ok {
		cp := *state
		return &cp, nil
	}
	return t.store.GetState(ctx, userID)
}

func (t *memTx) SaveProgression(ctx context.Context, state *domain.ProgressionState) error {
	cp := *state
	t.progression[state.UserID] = &cp
	return nil
}

func (t *memTx) AppendConsumption(ctx context.Context, record *domain.ConsumptionRecord) error {
	t.appends = append(t.appends, *record)
	return nil
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for key, res := range t.resolutions {
		t.store.nextID++
		res.ID = t.store.nextID
		t.store.resolutions[key] = res
	}
	for key, value := range t.state {
		row := t.store.state[key]
		if row == nil {
			row = &domain.ArcadeStateRow{}
			t.store.state[key] = row
		}
		row.Value = value
		row.UpdatedAt = time.Now()
	}
	for userID, state := range t.progression {
		t.store.progression[userID] = state
	}
	for _, record := range t.appends {
		t.store.nextID++
		record.ID = t.store.nextID
		t.store.ledger = append(t.store.ledger, record)
	}
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	return nil
}
