package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/repository"
)

const selectResolution = `
SELECT id, user_id, module, action_id, outcome, audit, client_seed, context, created_at
FROM resolutions`

type resolutionRepository struct {
	pool *pgxpool.Pool
}

// NewResolutionRepository creates a new Postgres-backed resolution repository
func NewResolutionRepository(pool *pgxpool.Pool) repository.Resolution {
	return &resolutionRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResolution(row rowScanner) (*domain.Resolution, error) {
	var (
		res          domain.Resolution
		outcomeJSON  []byte
		auditJSON    []byte
		contextJSON  []byte
	)
	err := row.Scan(&res.ID, &res.UserID, &res.Module, &res.ActionID,
		&outcomeJSON, &auditJSON, &res.ClientSeed, &contextJSON, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	if err := json.Unmarshal(outcomeJSON, &res.Outcome); err != nil {
		return nil, fmt.Errorf("failed to decode outcome: %w", err)
	}
	if err := json.Unmarshal(auditJSON, &res.Audit); err != nil {
		return nil, fmt.Errorf("failed to decode audit: %w", err)
	}
	if len(contextJSON) > 0 {
		if err := json.Unmarshal(contextJSON, &res.Context); err != nil {
			return nil, fmt.Errorf("failed to decode context: %w", err)
		}
	}
	return &res, nil
}

func (r *resolutionRepository) GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error) {
	row := r.pool.QueryRow(ctx,
		selectResolution+` WHERE user_id = $1 AND module = $2 AND action_id = $3`,
		userID, module, actionID)
	return scanResolution(row)
}

func (r *resolutionRepository) GetResolutionsByUser(ctx context.Context, userID string, limit int) ([]domain.Resolution, error) {
	rows, err := r.pool.Query(ctx,
		selectResolution+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var out []domain.Resolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *resolutionRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &pgTx{tx: tx}, nil
}
