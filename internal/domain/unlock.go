package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnlockStatus is the lifecycle state of an unlock record
type UnlockStatus string

const (
	UnlockStatusPending   UnlockStatus = "pending"
	UnlockStatusCompleted UnlockStatus = "completed"
	UnlockStatusFailed    UnlockStatus = "failed"
)

// UnlockKey is the natural key of an unlock record. It doubles as the
// idempotency key: retries of the same purchase always reference the same
// (user, recipe) pair, so no client-generated token is needed.
type UnlockKey struct {
	UserID   uuid.UUID
	RecipeID uuid.UUID
}

// UnlockRecord is the durable record of one unlock attempt and its terminal
// state. At most one completed record may exist per key; that record is the
// entitlement source of truth.
type UnlockRecord struct {
	UserID                  uuid.UUID    `json:"user_id"`
	RecipeID                uuid.UUID    `json:"recipe_id"`
	AmountPaid              int64        `json:"amount_paid"`
	PlatformFee             int64        `json:"platform_fee"`
	CreatorPayout           int64        `json:"creator_payout"`
	Status                  UnlockStatus `json:"status"`
	FailReason              string       `json:"fail_reason,omitempty"`
	ExternalAuthorizationID string       `json:"external_authorization_id,omitempty"`
	CreatedAt               time.Time    `json:"created_at"`
	CompletedAt             *time.Time   `json:"completed_at,omitempty"`
}

// Key returns the record's natural key
func (r *UnlockRecord) Key() UnlockKey {
	return UnlockKey{UserID: r.UserID, RecipeID: r.RecipeID}
}

// RevenueSplit is the platform/creator division of a paid amount, in minor
// currency units. AmountPaid == PlatformFee + CreatorPayout always holds.
type RevenueSplit struct {
	AmountPaid    int64 `json:"amount_paid"`
	PlatformFee   int64 `json:"platform_fee"`
	CreatorPayout int64 `json:"creator_payout"`
}
