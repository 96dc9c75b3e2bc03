package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tradepulse/arcade/internal/domain"
)

// pgTx implements repository.Tx over a single pgx transaction.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error) {
	row := t.tx.QueryRow(ctx,
		selectResolution+` WHERE user_id = $1 AND module = $2 AND action_id = $3`,
		userID, module, actionID)
	return scanResolution(row)
}

func (t *pgTx) InsertResolution(ctx context.Context, resolution *domain.Resolution) error {
	outcomeJSON, err := json.Marshal(resolution.Outcome)
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	auditJSON, err := json.Marshal(resolution.Audit)
	if err != nil {
		return fmt.Errorf("failed to encode audit: %w", err)
	}
	var contextJSON []byte
	if len(resolution.Context) > 0 {
		if contextJSON, err = json.Marshal(resolution.Context); err != nil {
			return fmt.Errorf("failed to encode context: %w", err)
		}
	}

	err = t.tx.QueryRow(ctx, `
		INSERT INTO resolutions (user_id, module, action_id, outcome, audit, client_seed, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		resolution.UserID, resolution.Module, resolution.ActionID,
		outcomeJSON, auditJSON, resolution.ClientSeed, contextJSON, resolution.CreatedAt,
	).Scan(&resolution.ID)
	if err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

// GetArcadeStateForUpdate locks the (user, key) row for the rest of the
// transaction. FOR UPDATE on a missing row locks nothing, so the row is
// created first; concurrent claimants then serialize on it.
func (t *pgTx) GetArcadeStateForUpdate(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error) {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO arcade_state (user_id, state_key, value)
		VALUES ($1, $2, '{}'::jsonb)
		ON CONFLICT (user_id, state_key) DO NOTHING`,
		userID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to seed arcade state row: %w", err)
	}

	var row domain.ArcadeStateRow
	err = t.tx.QueryRow(ctx, `
		SELECT user_id, state_key, value, created_at, updated_at
		FROM arcade_state
		WHERE user_id = $1 AND state_key = $2
		FOR UPDATE`,
		userID, key,
	).Scan(&row.UserID, &row.Key, &row.Value, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to lock arcade state: %w", err)
	}
	return &row, nil
}

func (t *pgTx) UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error {
	_, err := t.tx.Exec(ctx, `
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

func (t *pgTx) GetProgressionForUpdate(ctx context.Context, userID string) (*domain.ProgressionState, error) {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO progression (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to seed progression row: %w", err)
	}

	var state domain.ProgressionState
	err = t.tx.QueryRow(ctx, `
		SELECT user_id, xp, tier, prestige
		FROM progression
		WHERE user_id = $1
		FOR UPDATE`,
		userID,
	).Scan(&state.UserID, &state.XP, &state.Tier, &state.Prestige)
	if err != nil {
		return nil, fmt.Errorf("failed to lock progression: %w", err)
	}
	return &state, nil
}

func (t *pgTx) SaveProgression(ctx context.Context, state *domain.ProgressionState) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO progression (user_id, xp, tier, prestige)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET xp = EXCLUDED.xp, tier = EXCLUDED.tier, prestige = EXCLUDED.prestige, updated_at = NOW()`,
		state.UserID, state.XP, state.Tier, state.Prestige)
	if err != nil {
		return fmt.Errorf("failed to save progression: %w", err)
	}
	return nil
}

func (t *pgTx) AppendConsumption(ctx context.Context, record *domain.ConsumptionRecord) error {
	return appendConsumption(ctx, t.tx, record)
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
