package progression

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/repository"
)

// Service defines the progression store business logic.
type Service interface {
	// Get returns the user's progression state, zero-valued on first access.
	Get(ctx context.Context, userID string) (*domain.ProgressionState, error)

	// AddXP adds a non-negative delta and recomputes tier from the threshold
	// curve.
	AddXP(ctx context.Context, userID string, delta uint64) (*domain.ProgressionState, error)

	// PrestigeReset resets xp/tier and increments prestige. Fails with
	// prestige_not_available unless tier is at the ceiling for the current
	// prestige.
	PrestigeReset(ctx context.Context, userID string) (*domain.PrestigeResult, error)

	// NextTierXP exposes the tier curve for client display.
	NextTierXP(tier int) uint64

	// GetArcadeState unmarshals the (user, key) blob into dest. Returns
	// false when no row exists.
	GetArcadeState(ctx context.Context, userID, key string, dest any) (bool, error)

	// SetArcadeState replaces the (user, key) blob.
	SetArcadeState(ctx context.Context, userID, key string, value any) error

	// PatchArcadeState shallow-merges partial into the stored JSON object.
	// Last write under a key wins; callers needing multi-field atomicity
	// wrap the merge in a storage transaction instead.
	PatchArcadeState(ctx context.Context, userID, key string, partial map[string]any) error
}

type service struct {
	repo   repository.Progression
	config Config
}

// NewService creates a new progression service
func NewService(repo repository.Progression, config Config) Service {
	return &service{repo: repo, config: config}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.ProgressionState, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}
	state, err := s.repo.GetState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progression state: %w", err)
	}
	return state, nil
}

func (s *service) AddXP(ctx context.Context, userID string, delta uint64) (*domain.ProgressionState, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.GetProgressionForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock progression state: %w", err)
	}

	state.XP += delta
	state.Tier = s.config.TierForXP(state.XP, state.Prestige)

	if err := tx.SaveProgression(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save progression state: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit progression update: %w", err)
	}

	log.Debug("XP awarded", "userID", userID, "delta", delta, "xp", state.XP, "tier", state.Tier)
	return state, nil
}

func (s *service) PrestigeReset(ctx context.Context, userID string) (*domain.PrestigeResult, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.GetProgressionForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock progression state: %w", err)
	}

	if state.Tier < s.config.MaxTierFor(state.Prestige) {
		return nil, domain.ErrPrestigeNotAvailable
	}

	before := *state
	state.XP = 0
	state.Tier = 0
	state.Prestige++

	if err := tx.SaveProgression(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save progression state: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit prestige reset: %w", err)
	}

	log.Info("Prestige reset", "userID", userID, "prestige", state.Prestige)
	return &domain.PrestigeResult{Before: before, After: *state}, nil
}

func (s *service) NextTierXP(tier int) uint64 {
	return s.config.NextTierXP(tier)
}

func (s *service) GetArcadeState(ctx context.Context, userID, key string, dest any) (bool, error) {
	row, err := s.repo.GetArcadeState(ctx, userID, key)
	if err != nil {
		return false, fmt.Errorf("failed to get arcade state: %w", err)
	}
	if row == nil {
		return false, nil
	}
	if err := json.Unmarshal(row.Value, dest); err != nil {
		return false, fmt.Errorf("failed to decode arcade state %s/%s: %w", userID, key, err)
	}
	return true, nil
}

func (s *service) SetArcadeState(ctx context.Context, userID, key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode arcade state: %w", err)
	}
	if err := s.repo.UpsertArcadeState(ctx, userID, key, blob); err != nil {
		return fmt.Errorf("failed to upsert arcade state: %w", err)
	}
	return nil
}

func (s *service) PatchArcadeState(ctx context.Context, userID, key string, partial map[string]any) error {
	row, err := s.repo.GetArcadeState(ctx, userID, key)
	if err != nil {
		return fmt.Errorf("failed to get arcade state: %w", err)
	}

	merged := make(map[string]any)
	if row != nil {
		if err := json.Unmarshal(row.Value, &merged); err != nil {
			return fmt.Errorf("failed to decode stored arcade state: %w", err)
		}
	}
	for k, v := range partial {
		merged[k] = v
	}

	blob, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode merged arcade state: %w", err)
	}
	if err := s.repo.UpsertArcadeState(ctx, userID, key, blob); err != nil {
		return fmt.Errorf("failed to upsert arcade state: %w", err)
	}
	return nil
}
