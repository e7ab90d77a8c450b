package unlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/authorizer"
	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/logger"
	"github.com/YobelBerhe/CoachOS-sub000/internal/metrics"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

// Status is the caller-visible outcome of an unlock call
type Status string

const (
	StatusCompleted       Status = "completed"
	StatusAlreadyUnlocked Status = "already_unlocked"
)

// Result contains the outcome of a successful unlock operation
type Result struct {
	Status Status `json:"status"`
	domain.RevenueSplit
}

// Service defines the interface for unlock operations
type Service interface {
	// Unlock purchases access to a paid recipe. It is idempotent on the
	// (user, recipe) key: retrying after a completed purchase returns
	// StatusAlreadyUnlocked without a second authorizer call.
	Unlock(ctx context.Context, userID, recipeID uuid.UUID, authorizationToken string) (*Result, error)

	// History returns a page of the user's completed settlement records.
	History(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.UnlockRecord, int64, error)

	// SweepStalePending fails pending records older than the configured
	// threshold and returns how many were transitioned. Safe to run from
	// multiple workers concurrently with live unlock attempts.
	SweepStalePending(ctx context.Context) (int, error)
}

// EntitlementCache is primed by the unlock service when a purchase completes
// so the read side reflects the commit without waiting out a cache TTL.
type EntitlementCache interface {
	MarkUnlocked(key domain.UnlockKey)
}

const (
	sweepBatchSize = 256

	failReasonDeclined = "authorization declined"
	failReasonTimeout  = "authorization timeout"
	failReasonStale    = "stale pending timeout"
)

type service struct {
	ledger      repository.Ledger
	recipes     repository.Recipe
	auth        authorizer.Authorizer
	entitlement EntitlementCache

	authTimeout time.Duration
	staleAfter  time.Duration
}

// NewService creates a new unlock service. entitlement may be nil when no
// read-side cache is wired.
func NewService(ledger repository.Ledger, recipes repository.Recipe, auth authorizer.Authorizer, entitlement EntitlementCache, authTimeout, staleAfter time.Duration) Service {
	return &service{
		ledger:      ledger,
		recipes:     recipes,
		auth:        auth,
		entitlement: entitlement,
		authTimeout: authTimeout,
		staleAfter:  staleAfter,
	}
}

func (s *service) Unlock(ctx context.Context, userID, recipeID uuid.UUID, authorizationToken string) (*Result, error) {
	log := logger.FromContext(ctx)
	log.Info("Unlock called", "user_id", userID, "recipe_id", recipeID)

	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.IsPaid || recipe.PriceMinor <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotPaid, recipeID)
	}

	key := domain.UnlockKey{UserID: userID, RecipeID: recipeID}

	outcome, existing, err := s.ledger.InsertPending(ctx, key, recipe.PriceMinor)
	if err != nil {
		return nil, err
	}

	switch outcome {
	case repository.AlreadyCompleted:
		// Idempotent retry: the earlier purchase answers this call.
		log.Info("Unlock already completed", "user_id", userID, "recipe_id", recipeID)
		return &Result{
			Status: StatusAlreadyUnlocked,
			RevenueSplit: domain.RevenueSplit{
				AmountPaid:    existing.AmountPaid,
				PlatformFee:   existing.PlatformFee,
				CreatorPayout: existing.CreatorPayout,
			},
		}, nil
	case repository.AlreadyPending:
		// A concurrent request from this user holds the in-flight attempt.
		// Reject rather than race a second authorization.
		return nil, fmt.Errorf("%w: %s", domain.ErrUnlockInProgress, recipeID)
	}

	authID, err := s.authorize(ctx, authorizationToken, recipe.PriceMinor)
	if err != nil {
		reason := failReasonDeclined
		if errors.Is(err, domain.ErrAuthorizationTimeout) {
			reason = failReasonTimeout
		}
		// The sweep may have already failed a slow attempt; either way the
		// record is terminal and the caller sees the authorization error.
		if _, failErr := s.ledger.FailPending(ctx, key, reason); failErr != nil {
			log.Error("Failed to mark unlock failed", "error", failErr, "user_id", userID, "recipe_id", recipeID)
		}
		metrics.UnlocksFailed.WithLabelValues(reason).Inc()
		return nil, err
	}

	split := ComputeSplit(recipe.PriceMinor)

	completed, err := s.ledger.CompletePending(ctx, key, split, authID)
	if err != nil {
		return nil, err
	}
	if !completed {
		// The record left pending while we were authorizing (stale sweep, or
		// a retried attempt that resolved first). The caller must re-read
		// entitlement rather than retry blindly.
		log.Warn("Unlock completion raced", "user_id", userID, "recipe_id", recipeID)
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, recipeID)
	}

	if s.entitlement != nil {
		s.entitlement.MarkUnlocked(key)
	}
	metrics.UnlocksCompleted.Inc()
	metrics.RevenueCollected.Add(float64(split.AmountPaid))

	log.Info("Unlock completed",
		"user_id", userID, "recipe_id", recipeID,
		"amount_paid", split.AmountPaid, "platform_fee", split.PlatformFee, "creator_payout", split.CreatorPayout)

	return &Result{Status: StatusCompleted, RevenueSplit: split}, nil
}

// authorize calls the external authorizer under the configured timeout and
// records the call latency.
func (s *service) authorize(ctx context.Context, token string, amountMinor int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.authTimeout)
	defer cancel()

	start := time.Now()
	authID, err := s.auth.Authorize(ctx, token, amountMinor)
	metrics.AuthorizerDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.ErrAuthorizationTimeout
		}
		return "", err
	}
	return authID, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.UnlockRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.ledger.ListCompletedByUser(ctx, userID, (page-1)*limit, limit)
}

func (s *service) SweepStalePending(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	cutoff := time.Now().Add(-s.staleAfter)
	keys, err := s.ledger.ListStalePending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale pending unlocks: %w", err)
	}

	swept := 0
	for _, key := range keys {
		// The same CAS primitive as the live path: a record completed (or
		// already failed) between the listing and this update is skipped.
		ok, err := s.ledger.FailPending(ctx, key, failReasonStale)
		if err != nil {
			return swept, fmt.Errorf("failed to sweep pending unlock: %w", err)
		}
		if ok {
			swept++
			metrics.UnlocksFailed.WithLabelValues(failReasonStale).Inc()
			log.Warn("Swept stale pending unlock", "user_id", key.UserID, "recipe_id", key.RecipeID)
		}
	}
	return swept, nil
}
