package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies a user/recipe interaction
type EventType string

const (
	EventView       EventType = "view"
	EventFavorite   EventType = "favorite"
	EventUnfavorite EventType = "unfavorite"
	EventDiaryLog   EventType = "diary_log"
)

// ValidEventType reports whether t is one of the recognized interaction types
func ValidEventType(t EventType) bool {
	switch t {
	case EventView, EventFavorite, EventUnfavorite, EventDiaryLog:
		return true
	}
	return false
}

// InteractionEvent is one immutable entry in the append-only interaction log.
// OccurredAt is client-supplied (the moment of the action); RecordedAt is when
// the server persisted it. Favorite/unfavorite pairs are kept verbatim even
// when redundant; readers derive current state from the full history.
type InteractionEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	RecipeID   uuid.UUID `json:"recipe_id"`
	EventType  EventType `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RankedRecipe is one entry of a personalized ranking
type RankedRecipe struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Score    float64   `json:"score"`
}
