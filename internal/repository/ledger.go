package repository

import (
	"context"
	"time"

	"github.com/tradepulse/arcade/internal/domain"
)

// Ledger defines the append-only consumption ledger. There is no update or
// delete; reads exist for analytics and dispute review, never for the
// resolution hot path.
type Ledger interface {
	// Append stores one consumption record.
	Append(ctx context.Context, record *domain.ConsumptionRecord) error

	// GetByUser retrieves a user's records for review, newest first.
	GetByUser(ctx context.Context, userID string, limit int) ([]domain.ConsumptionRecord, error)

	// GetByModule retrieves records for a module within a time window.
	GetByModule(ctx context.Context, module domain.Module, since, until time.Time, limit int) ([]domain.ConsumptionRecord, error)
}
