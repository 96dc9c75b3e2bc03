package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/arcade/internal/domain"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Append(ctx context.Context, record *domain.ConsumptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) GetByUser(ctx context.Context, userID string, limit int) ([]domain.ConsumptionRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConsumptionRecord), args.Error(1)
}

func (m *MockRepository) GetByModule(ctx context.Context, module domain.Module, since, until time.Time, limit int) ([]domain.ConsumptionRecord, error) {
	args := m.Called(ctx, module, since, until, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConsumptionRecord), args.Error(1)
}

func TestLogConsumptionFloorsQuantity(t *testing.T) {
	repo := new(MockRepository)
	var appended *domain.ConsumptionRecord
	repo.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*domain.ConsumptionRecord) }).
		Return(nil)

	svc := NewService(repo)

	err := svc.LogConsumption(context.Background(), &domain.ConsumptionRecord{
		UserID:      "u1",
		Kind:        domain.OutcomeKindShards,
		Code:        "shards_spent",
		Quantity:    0,
		ContextType: domain.ContextTypeClaim,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, appended.Quantity, "quantity floored to 1 at write time")
}

func TestLogConsumptionValidation(t *testing.T) {
	svc := NewService(new(MockRepository))

	err := svc.LogConsumption(context.Background(), &domain.ConsumptionRecord{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUserHistoryDefaultsLimit(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByUser", mock.Anything, "u1", DefaultHistoryLimit).Return([]domain.ConsumptionRecord{}, nil)

	svc := NewService(repo)

	_, err := svc.GetUserHistory(context.Background(), "u1", 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetModuleActivityRejectsUnknownModule(t *testing.T) {
	svc := NewService(new(MockRepository))

	_, err := svc.GetModuleActivity(context.Background(), domain.Module("bogus"), time.Time{}, time.Now(), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
