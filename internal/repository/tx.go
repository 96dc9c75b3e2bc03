package repository

import (
	"context"

	"github.com/tradepulse/arcade/internal/domain"
)

// Tx defines the interface for transactional operations. A resolution's
// precondition check, state mutation, ledger append and audit persist all
// run on a single Tx so concurrent duplicate claims race to a single winner.
type Tx interface {
	GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error)
	InsertResolution(ctx context.Context, resolution *domain.Resolution) error

	GetArcadeStateForUpdate(ctx context.Context, userID, key string) (*domain.ArcadeStateRow, error)
	UpsertArcadeState(ctx context.Context, userID, key string, value []byte) error

	GetProgressionForUpdate(ctx context.Context, userID string) (*domain.ProgressionState, error)
	SaveProgression(ctx context.Context, state *domain.ProgressionState) error

	AppendConsumption(ctx context.Context, record *domain.ConsumptionRecord) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
