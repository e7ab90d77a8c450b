package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
)

// InsertOutcome reports what the atomic pending-insert found at the key
type InsertOutcome int

const (
	// InsertedPending means a fresh pending row was created (or a prior failed
	// row was superseded in place).
	InsertedPending InsertOutcome = iota
	// AlreadyCompleted means a completed record exists; the purchase is done.
	AlreadyCompleted
	// AlreadyPending means another request holds an in-flight pending row.
	AlreadyPending
)

// Ledger defines the interface for unlock record persistence.
//
// The store exposes exactly two compare-and-set primitives over the
// (user_id, recipe_id) key: "insert pending if absent" and "transition pending
// to a terminal state". No other transitions are legal, and this key is the
// single serialization point of the purchase path. Records are never deleted;
// a completed row is the entitlement source of truth.
type Ledger interface {
	// InsertPending atomically creates a pending record for the key with the
	// given amount snapshot. When a record already exists, the outcome tells
	// the caller what it found; for AlreadyCompleted the existing record is
	// returned so idempotent retries can answer without a second read.
	InsertPending(ctx context.Context, key domain.UnlockKey, amountMinor int64) (InsertOutcome, *domain.UnlockRecord, error)

	// CompletePending atomically transitions pending -> completed, writing the
	// revenue split and the external authorization id. Returns false when the
	// row is no longer pending (a concurrent actor resolved it first).
	CompletePending(ctx context.Context, key domain.UnlockKey, split domain.RevenueSplit, externalAuthorizationID string) (bool, error)

	// FailPending atomically transitions pending -> failed with a reason.
	// Returns false when the row is no longer pending.
	FailPending(ctx context.Context, key domain.UnlockKey, reason string) (bool, error)

	// Get returns the current record for the key, or domain.ErrUnlockNotFound.
	Get(ctx context.Context, key domain.UnlockKey) (*domain.UnlockRecord, error)

	// ListStalePending returns the keys of pending records created before the
	// cutoff, oldest first, for the background sweep.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]domain.UnlockKey, error)

	// ListCompletedByUser returns a page of completed settlement records for a
	// user, most recent first, along with the total count.
	ListCompletedByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UnlockRecord, int64, error)
}
