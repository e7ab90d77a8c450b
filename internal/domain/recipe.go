package domain

import "github.com/google/uuid"

// Recipe is the read-only catalog view this service depends on. Content
// authoring lives elsewhere; the core only needs pricing and ownership.
// PriceMinor is in minor currency units (cents), never a float.
type Recipe struct {
	ID         uuid.UUID `json:"id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	Title      string    `json:"title"`
	PriceMinor int64     `json:"price_minor"`
	IsPaid     bool      `json:"is_paid"`
}
