package unlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

// MockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) InsertPending(ctx context.Context, key domain.UnlockKey, amountMinor int64) (repository.InsertOutcome, *domain.UnlockRecord, error) {
	args := m.Called(ctx, key, amountMinor)
	var record *domain.UnlockRecord
	if args.Get(1) != nil {
		record = args.Get(1).(*domain.UnlockRecord)
	}
	return args.Get(0).(repository.InsertOutcome), record, args.Error(2)
}

func (m *MockLedger) CompletePending(ctx context.Context, key domain.UnlockKey, split domain.RevenueSplit, externalAuthorizationID string) (bool, error) {
	args := m.Called(ctx, key, split, externalAuthorizationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) FailPending(ctx context.Context, key domain.UnlockKey, reason string) (bool, error) {
	args := m.Called(ctx, key, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Get(ctx context.Context, key domain.UnlockKey) (*domain.UnlockRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnlockRecord), args.Error(1)
}

func (m *MockLedger) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]domain.UnlockKey, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnlockKey), args.Error(1)
}

func (m *MockLedger) ListCompletedByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UnlockRecord, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.UnlockRecord), args.Get(1).(int64), args.Error(2)
}

// MockRecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, recipeID uuid.UUID) (*domain.Recipe, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

// MockAuthorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, token string, amountMinor int64) (string, error) {
	args := m.Called(ctx, token, amountMinor)
	return args.String(0), args.Error(1)
}

// spyEntitlementCache records MarkUnlocked calls
type spyEntitlementCache struct {
	mu   sync.Mutex
	keys []domain.UnlockKey
}

func (s *spyEntitlementCache) MarkUnlocked(key domain.UnlockKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
}

func (s *spyEntitlementCache) marked() []domain.UnlockKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.UnlockKey(nil), s.keys...)
}
