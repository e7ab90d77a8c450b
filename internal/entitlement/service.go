// Package entitlement is the thin read side of the unlock ledger: it answers
// "is recipe X unlocked for user Y" for the UI layer.
package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/metrics"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

// Service defines the interface for entitlement checks
type Service interface {
	// IsUnlocked returns true when the recipe is free or a completed unlock
	// record exists for the user. Read-only, no side effects.
	IsUnlocked(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	// MarkUnlocked primes the cache when the unlock service commits a
	// purchase, so reads reflect the commit immediately. Satisfies
	// unlock.EntitlementCache.
	MarkUnlocked(key domain.UnlockKey)
}

// Only positive answers are cached. An entitlement, once granted, never goes
// away (records are append-only after their terminal state), so a cached
// "unlocked" can never be stale; a "locked" answer always hits the store.
type service struct {
	recipes repository.Recipe
	ledger  repository.Ledger
	cache   *expirable.LRU[string, struct{}]
}

// NewService creates a new entitlement gate. cacheSize <= 0 disables caching.
func NewService(recipes repository.Recipe, ledger repository.Ledger, cacheSize int, cacheTTL time.Duration) Service {
	s := &service{recipes: recipes, ledger: ledger}
	if cacheSize > 0 {
		s.cache = expirable.NewLRU[string, struct{}](cacheSize, nil, cacheTTL)
	}
	return s
}

func cacheKey(key domain.UnlockKey) string {
	return key.UserID.String() + ":" + key.RecipeID.String()
}

func (s *service) IsUnlocked(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return false, err
	}
	if !recipe.IsPaid {
		// Free recipes never produce unlock records; entitlement is implicit.
		return true, nil
	}

	key := domain.UnlockKey{UserID: userID, RecipeID: recipeID}

	if s.cache != nil {
		if _, ok := s.cache.Get(cacheKey(key)); ok {
			metrics.EntitlementCacheHits.Inc()
			return true, nil
		}
	}

	record, err := s.ledger.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrUnlockNotFound) {
			return false, nil
		}
		return false, err
	}
	if record.Status != domain.UnlockStatusCompleted {
		return false, nil
	}

	s.MarkUnlocked(key)
	return true, nil
}

func (s *service) MarkUnlocked(key domain.UnlockKey) {
	if s.cache != nil {
		s.cache.Add(cacheKey(key), struct{}{})
	}
}
