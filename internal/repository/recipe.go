package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
)

// Recipe defines the read-only interface over the recipe catalog. Pricing is
// snapshotted into the ledger at pending-insert time, so a price is never
// re-read once an unlock record references it.
type Recipe interface {
	// GetByID returns the recipe, or domain.ErrRecipeNotFound.
	GetByID(ctx context.Context, recipeID uuid.UUID) (*domain.Recipe, error)
}
