package progression

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/arcade/internal/domain"
)

func TestAddXPRecomputesTier(t *testing.T) {
	repo := new(MockRepository)
	state := &domain.ProgressionState{UserID: "u1"}
	tx := newFakeTx(state)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	svc := NewService(repo, DefaultConfig())

	got, err := svc.AddXP(context.Background(), "u1", 450)
	require.NoError(t, err)

	// 450 XP with base 100: tier 1 needs 100, tier 2 needs 400, tier 3 needs 900
	assert.Equal(t, uint64(450), got.XP)
	assert.Equal(t, 2, got.Tier)
	assert.True(t, tx.committed)
}

func TestTierMonotonicUnderXPSequence(t *testing.T) {
	repo := new(MockRepository)
	state := &domain.ProgressionState{UserID: "u1"}
	tx := newFakeTx(state)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	svc := NewService(repo, DefaultConfig())

	lastTier := 0
	for _, delta := range []uint64{0, 50, 120, 0, 300, 999, 1, 5000} {
		got, err := svc.AddXP(context.Background(), "u1", delta)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Tier, lastTier, "tier must never decrease on addXp")
		lastTier = got.Tier
	}
}

func TestAddXPRejectsEmptyUser(t *testing.T) {
	svc := NewService(new(MockRepository), DefaultConfig())
	_, err := svc.AddXP(context.Background(), "", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrestigeResetRequiresMaxTier(t *testing.T) {
	repo := new(MockRepository)
	cfg := Config{TierBaseXP: 100, MaxTier: 3}
	state := &domain.ProgressionState{UserID: "u1", XP: 450, Tier: 2}
	tx := newFakeTx(state)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	svc := NewService(repo, cfg)

	_, err := svc.PrestigeReset(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrPrestigeNotAvailable)
	assert.False(t, tx.committed, "failed precondition must not mutate state")
}

func TestPrestigeResetAtMaxTier(t *testing.T) {
	repo := new(MockRepository)
	cfg := Config{TierBaseXP: 100, MaxTier: 3}
	state := &domain.ProgressionState{UserID: "u1", XP: 950, Tier: 3, Prestige: 1}
	tx := newFakeTx(state)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	svc := NewService(repo, cfg)

	result, err := svc.PrestigeReset(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Before.Tier)
	assert.Equal(t, uint64(950), result.Before.XP)
	assert.Equal(t, 0, result.After.Tier)
	assert.Equal(t, uint64(0), result.After.XP)
	assert.Equal(t, 2, result.After.Prestige)
	assert.True(t, tx.committed)
}

func TestGetArcadeStateMissingRow(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetArcadeState", mock.Anything, "u1", domain.StateKeyPity).Return(nil, nil)

	svc := NewService(repo, DefaultConfig())

	var pity domain.PityState
	found, err := svc.GetArcadeState(context.Background(), "u1", domain.StateKeyPity, &pity)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPatchArcadeStateShallowMerge(t *testing.T) {
	repo := new(MockRepository)
	stored := domain.ArcadeStateRow{
		UserID:    "u1",
		Key:       domain.StateKeyStreak,
		Value:     json.RawMessage(`{"days": 4, "last_claim_date": "2026-02-15"}`),
		UpdatedAt: time.Now(),
	}
	repo.On("GetArcadeState", mock.Anything, "u1", domain.StateKeyStreak).Return(&stored, nil)

	var written []byte
	repo.On("UpsertArcadeState", mock.Anything, "u1", domain.StateKeyStreak, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(3).([]byte) }).
		Return(nil)

	svc := NewService(repo, DefaultConfig())

	err := svc.PatchArcadeState(context.Background(), "u1", domain.StateKeyStreak, map[string]any{
		"days": 5,
	})
	require.NoError(t, err)

	var merged map[string]any
	require.NoError(t, json.Unmarshal(written, &merged))
	assert.Equal(t, float64(5), merged["days"], "patched field overwritten")
	assert.Equal(t, "2026-02-15", merged["last_claim_date"], "untouched field preserved")
}

func TestPatchArcadeStateCreatesRow(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetArcadeState", mock.Anything, "u1", domain.StateKeyPity).Return(nil, nil)
	repo.On("UpsertArcadeState", mock.Anything, "u1", domain.StateKeyPity, mock.Anything).Return(nil)

	svc := NewService(repo, DefaultConfig())

	err := svc.PatchArcadeState(context.Background(), "u1", domain.StateKeyPity, map[string]any{"count": 1})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
