package interaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/logger"
	"github.com/YobelBerhe/CoachOS-sub000/internal/metrics"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

// Service defines the interface for interaction recording
type Service interface {
	// Record appends one event to the interaction log. It never rejects on
	// logical grounds — a favorite right after another favorite is stored
	// verbatim; consumers derive current state. The only rejection is a
	// timestamp further in the future than the skew horizon.
	Record(ctx context.Context, userID, recipeID uuid.UUID, eventType domain.EventType, occurredAt time.Time) error

	// Favorites returns the user's currently favorited recipe ids, derived
	// from the log (most recent favorite/unfavorite wins).
	Favorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// Events returns every event for the user touching the given recipes,
	// ordered by occurred_at ascending.
	Events(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]domain.InteractionEvent, error)
}

// ScoreInvalidator drops any cached affinity score for a (user, recipe) key
// so the next ranking sees the new event.
type ScoreInvalidator interface {
	Invalidate(userID, recipeID uuid.UUID)
}

type service struct {
	repo        repository.Interaction
	invalidator ScoreInvalidator
	skewHorizon time.Duration
	now         func() time.Time // for tests
}

// NewService creates a new interaction recording service. invalidator may be
// nil when no score cache is wired.
func NewService(repo repository.Interaction, invalidator ScoreInvalidator, skewHorizon time.Duration) Service {
	return &service{
		repo:        repo,
		invalidator: invalidator,
		skewHorizon: skewHorizon,
		now:         time.Now,
	}
}

func (s *service) Record(ctx context.Context, userID, recipeID uuid.UUID, eventType domain.EventType, occurredAt time.Time) error {
	log := logger.FromContext(ctx)

	if !domain.ValidEventType(eventType) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownEventType, eventType)
	}

	now := s.now()
	if occurredAt.After(now.Add(s.skewHorizon)) {
		return fmt.Errorf("%w: occurred_at %s is beyond horizon %s",
			domain.ErrClockSkewTooLarge, occurredAt.Format(time.RFC3339), s.skewHorizon)
	}

	event := domain.InteractionEvent{
		ID:         uuid.New(),
		UserID:     userID,
		RecipeID:   recipeID,
		EventType:  eventType,
		OccurredAt: occurredAt,
		RecordedAt: now,
	}

	if err := s.repo.Append(ctx, event); err != nil {
		log.Error("Failed to append interaction event", "error", err, "user_id", userID, "recipe_id", recipeID, "type", eventType)
		return err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(userID, recipeID)
	}
	metrics.InteractionsRecorded.WithLabelValues(string(eventType)).Inc()

	log.Debug("Interaction recorded", "user_id", userID, "recipe_id", recipeID, "type", eventType)
	return nil
}

func (s *service) Favorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.CurrentFavorites(ctx, userID)
}

func (s *service) Events(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]domain.InteractionEvent, error) {
	return s.repo.ListByUserAndRecipes(ctx, userID, recipeIDs)
}
