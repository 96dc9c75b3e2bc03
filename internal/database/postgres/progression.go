package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/repository"
)

type progressionRepository struct {
	pool *pgxpool.Pool
}

// NewProgressionRepository creates a new Postgres-backed progression repository
func NewProgressionRepository(pool *pgxpool.Pool) repository.Progression {
	return &progressionRepository{pool: pool}
}

func (r *progressionRepository) GetState(ctx context.Context, userID string) (*domain.ProgressionState, error) {
	var state domain.ProgressionState
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, xp, tier, prestige
		FROM progression
		WHERE user_id = $1`,
		userID,
	).Scan(&state.UserID, &state.XP, &state.Tier, &state.Prestige)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// First access: a zeroed state, persisted lazily on first write.
			return &domain.ProgressionState{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get progression state: %w", err)
	}
	return &state, nil
}

func (r *progressionRepository) SaveState(ctx context.Context, state *domain.ProgressionState) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO progression (user_id, xp, tier, prestige)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET xp = EXCLUDED.xp, tier = EXCLUDED.tier, prestige = EXCLUDED.prestige, updated_at = NOW()`,
		state.UserID, state.XP, state.Tier, state.Prestige)
	if err != nil {
		return fmt.Errorf("failed to save progression state: %w", err)
	}
	return nil
}

func (r *progressionRepository) GetArcadeState(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error) {
	var row domain.ArcadeStateRow
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, state_key, value, created_at, updated_at
		FROM arcade_state
		WHERE user_id = $1 AND state_key = $2`,
		userID, key,
	).Scan(&row.UserID, &row.Key, &row.Value, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get arcade state: %w", err)
	}
	return &row, nil
}

func (r *progressionRepository) UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO arcade_state (user_id, state_key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, state_key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		userID, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert arcade state: %w", err)
	}
	return nil
}

func (r *progressionRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &pgTx{tx: tx}, nil
}
