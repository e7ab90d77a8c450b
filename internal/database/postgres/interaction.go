package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

type interactionRepository struct {
	db *pgxpool.Pool
}

// NewInteractionRepository creates a new PostgreSQL interaction log repository
func NewInteractionRepository(db *pgxpool.Pool) repository.Interaction {
	return &interactionRepository{db: db}
}

const appendEventSQL = `
	INSERT INTO interaction_events (event_id, user_id, recipe_id, event_type, occurred_at, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

func (r *interactionRepository) Append(ctx context.Context, event domain.InteractionEvent) error {
	_, err := r.db.Exec(ctx, appendEventSQL,
		event.ID, event.UserID, event.RecipeID,
		string(event.EventType), event.OccurredAt, event.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append interaction event: %w", err)
	}
	return nil
}

const listEventsSQL = `
	SELECT event_id, user_id, recipe_id, event_type, occurred_at, recorded_at
	FROM interaction_events
	WHERE user_id = $1 AND recipe_id = ANY($2)
	ORDER BY occurred_at, recorded_at
`

func (r *interactionRepository) ListByUserAndRecipes(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]domain.InteractionEvent, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, listEventsSQL, userID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list interaction events: %w", err)
	}
	defer rows.Close()

	var events []domain.InteractionEvent
	for rows.Next() {
		var event domain.InteractionEvent
		var eventType string
		if err := rows.Scan(&event.ID, &event.UserID, &event.RecipeID, &eventType, &event.OccurredAt, &event.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction event: %w", err)
		}
		event.EventType = domain.EventType(eventType)
		events = append(events, event)
	}
	return events, rows.Err()
}

// currentFavoritesSQL reduces the toggle history to the latest
// favorite/unfavorite per recipe and keeps only the favorites. Current state
// is always derived from the log; there is no mutable favorites table to
// drift out of sync.
const currentFavoritesSQL = `
	SELECT recipe_id FROM (
		SELECT DISTINCT ON (recipe_id) recipe_id, event_type
		FROM interaction_events
		WHERE user_id = $1 AND event_type IN ('favorite', 'unfavorite')
		ORDER BY recipe_id, occurred_at DESC, recorded_at DESC
	) latest
	WHERE event_type = 'favorite'
`

func (r *interactionRepository) CurrentFavorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, currentFavoritesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list current favorites: %w", err)
	}
	defer rows.Close()

	var recipeIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite recipe id: %w", err)
		}
		recipeIDs = append(recipeIDs, id)
	}
	return recipeIDs, rows.Err()
}
