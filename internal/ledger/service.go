package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/repository"
)

// Service handles consumption ledger business logic. Writes are append-only;
// the resolution engine never reads the ledger back.
type Service interface {
	// LogConsumption appends one record, flooring quantity to >= 1.
	LogConsumption(ctx context.Context, record *domain.ConsumptionRecord) error

	// GetUserHistory retrieves a user's consumption records for dispute and
	// anti-abuse review, newest first.
	GetUserHistory(ctx context.Context, userID string, limit int) ([]domain.ConsumptionRecord, error)

	// GetModuleActivity retrieves ledger rows for one module in a window.
	GetModuleActivity(ctx context.Context, module domain.Module, since, until time.Time, limit int) ([]domain.ConsumptionRecord, error)
}

type service struct {
	repo repository.Ledger
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{repo: repo}
}

func (s *service) LogConsumption(ctx context.Context, record *domain.ConsumptionRecord) error {
	log := logger.FromContext(ctx)

	if record.UserID == "" || record.Kind == "" || record.Code == "" {
		return fmt.Errorf("%w: ledger record requires user, kind and code", domain.ErrInvalidInput)
	}
	record.NormalizeQuantity()

	if err := s.repo.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append consumption record: %w", err)
	}

	log.Debug("Consumption logged", "userID", record.UserID, "kind", record.Kind, "code", record.Code)
	return nil
}

func (s *service) GetUserHistory(ctx context.Context, userID string, limit int) ([]domain.ConsumptionRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.GetByUser(ctx, userID, limit)
}

func (s *service) GetModuleActivity(ctx context.Context, module domain.Module, since, until time.Time, limit int) ([]domain.ConsumptionRecord, error) {
	if !module.Valid() {
		return nil, fmt.Errorf("%w: unknown module %q", domain.ErrInvalidInput, module)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.GetByModule(ctx, module, since, until, limit)
}
