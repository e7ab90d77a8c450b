package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
)

// Interaction defines the interface for the append-only interaction log
type Interaction interface {
	// Append persists one event. The log is append-only; events are immutable
	// once written and arrival order carries no meaning.
	Append(ctx context.Context, event domain.InteractionEvent) error

	// ListByUserAndRecipes returns every event for the user touching any of
	// the given recipes, ordered by occurred_at ascending.
	ListByUserAndRecipes(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]domain.InteractionEvent, error)

	// CurrentFavorites returns the recipe ids whose most recent
	// favorite/unfavorite event for the user is a favorite.
	CurrentFavorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
