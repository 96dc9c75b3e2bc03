package repository

import (
	"context"

	"github.com/tradepulse/arcade/internal/domain"
)

// Progression defines database operations for the progression store.
type Progression interface {
	// GetState returns the progression row for a user, creating a zeroed row
	// on first access.
	GetState(ctx context.Context, userID string) (*domain.ProgressionState, error)

	// SaveState upserts the full progression row.
	SaveState(ctx context.Context, state *domain.ProgressionState) error

	// Arcade state scratch space, one JSON blob per (user, key).
	GetArcadeState(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error)
	UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error

	// Transaction support
	BeginTx(ctx context.Context) (Tx, error)
}
