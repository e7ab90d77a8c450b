package unlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

// memoryLedger is an in-memory ledger with the same compare-and-set semantics
// as the Postgres implementation, used for concurrency tests.
type memoryLedger struct {
	mu      sync.Mutex
	records map[domain.UnlockKey]*domain.UnlockRecord
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{records: make(map[domain.UnlockKey]*domain.UnlockRecord)}
}

func (l *memoryLedger) InsertPending(_ context.Context, key domain.UnlockKey, amountMinor int64) (repository.InsertOutcome, *domain.UnlockRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.records[key]; ok {
		switch existing.Status {
		case domain.UnlockStatusCompleted:
			record := *existing
			return repository.AlreadyCompleted, &record, nil
		case domain.UnlockStatusPending:
			return repository.AlreadyPending, nil, nil
		}
		// Failed rows are superseded in place by a fresh attempt.
	}

	l.records[key] = &domain.UnlockRecord{
		UserID:     key.UserID,
		RecipeID:   key.RecipeID,
		AmountPaid: amountMinor,
		Status:     domain.UnlockStatusPending,
		CreatedAt:  time.Now(),
	}
	return repository.InsertedPending, nil, nil
}

func (l *memoryLedger) CompletePending(_ context.Context, key domain.UnlockKey, split domain.RevenueSplit, externalAuthorizationID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[key]
	if !ok || record.Status != domain.UnlockStatusPending {
		return false, nil
	}
	now := time.Now()
	record.AmountPaid = split.AmountPaid
	record.PlatformFee = split.PlatformFee
	record.CreatorPayout = split.CreatorPayout
	record.Status = domain.UnlockStatusCompleted
	record.ExternalAuthorizationID = externalAuthorizationID
	record.CompletedAt = &now
	return true, nil
}

func (l *memoryLedger) FailPending(_ context.Context, key domain.UnlockKey, reason string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[key]
	if !ok || record.Status != domain.UnlockStatusPending {
		return false, nil
	}
	record.Status = domain.UnlockStatusFailed
	record.FailReason = reason
	return true, nil
}

func (l *memoryLedger) Get(_ context.Context, key domain.UnlockKey) (*domain.UnlockRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[key]
	if !ok {
		return nil, domain.ErrUnlockNotFound
	}
	copied := *record
	return &copied, nil
}

func (l *memoryLedger) ListStalePending(_ context.Context, cutoff time.Time, limit int) ([]domain.UnlockKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var keys []domain.UnlockKey
	for key, record := range l.records {
		if record.Status == domain.UnlockStatusPending && record.CreatedAt.Before(cutoff) {
			keys = append(keys, key)
			if len(keys) == limit {
				break
			}
		}
	}
	return keys, nil
}

func (l *memoryLedger) ListCompletedByUser(_ context.Context, userID uuid.UUID, offset, limit int) ([]domain.UnlockRecord, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var records []domain.UnlockRecord
	for _, record := range l.records {
		if record.UserID == userID && record.Status == domain.UnlockStatusCompleted {
			records = append(records, *record)
		}
	}
	total := int64(len(records))
	if offset >= len(records) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end], total, nil
}

// backdatePending rewinds a pending record's creation time so sweep tests can
// make it stale without sleeping.
func (l *memoryLedger) backdatePending(key domain.UnlockKey, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if record, ok := l.records[key]; ok {
		record.CreatedAt = record.CreatedAt.Add(-d)
	}
}

// memoryRecipes is a fixed catalog for tests
type memoryRecipes struct {
	recipes map[uuid.UUID]*domain.Recipe
}

func (r *memoryRecipes) GetByID(_ context.Context, recipeID uuid.UUID) (*domain.Recipe, error) {
	recipe, ok := r.recipes[recipeID]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return recipe, nil
}
