package repository

import (
	"context"

	"github.com/tradepulse/arcade/internal/domain"
)

// Resolution defines read access to persisted resolutions outside the
// resolve transaction (replay fast path, audit lookups).
type Resolution interface {
	GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error)
	GetResolutionsByUser(ctx context.Context, userID string, limit int) ([]domain.Resolution, error)
	BeginTx(ctx context.Context) (Tx, error)
}
