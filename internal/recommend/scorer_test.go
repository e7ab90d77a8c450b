package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
)

const halfLife = 14.0

func event(recipeID uuid.UUID, t domain.EventType, occurredAt time.Time) domain.InteractionEvent {
	return domain.InteractionEvent{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		RecipeID:   recipeID,
		EventType:  t,
		OccurredAt: occurredAt,
		RecordedAt: occurredAt,
	}
}

func TestScoreEvents_HalfLife(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	lambda := DecayRate(halfLife)
	recipeID := uuid.New()

	// A favorite aged exactly one half-life is worth half its weight.
	score, last := scoreEvents([]domain.InteractionEvent{
		event(recipeID, domain.EventFavorite, now.AddDate(0, 0, -14)),
	}, now, lambda)

	assert.InDelta(t, weightFavorite/2, score, 1e-9)
	assert.Equal(t, now.AddDate(0, 0, -14), last)
}

func TestScoreEvents_FreshEventFullWeight(t *testing.T) {
	now := time.Now()
	lambda := DecayRate(halfLife)
	recipeID := uuid.New()

	score, _ := scoreEvents([]domain.InteractionEvent{
		event(recipeID, domain.EventDiaryLog, now),
	}, now, lambda)

	assert.InDelta(t, weightDiaryLog, score, 1e-9)
}

func TestScoreEvents_SignedFavoriteToggles(t *testing.T) {
	// favorite, unfavorite, favorite: the first pair cancels term for term, so
	// the net equals one favorite's decayed value at its own timestamp.
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	lambda := DecayRate(halfLife)
	recipeID := uuid.New()
	toggleAt := now.AddDate(0, 0, -7)

	toggled, _ := scoreEvents([]domain.InteractionEvent{
		event(recipeID, domain.EventFavorite, toggleAt),
		event(recipeID, domain.EventUnfavorite, toggleAt),
		event(recipeID, domain.EventFavorite, now.AddDate(0, 0, -1)),
	}, now, lambda)

	single, _ := scoreEvents([]domain.InteractionEvent{
		event(recipeID, domain.EventFavorite, now.AddDate(0, 0, -1)),
	}, now, lambda)

	assert.InDelta(t, single, toggled, 1e-9)
}

func TestScoreEvents_StaggeredToggleLeavesResidue(t *testing.T) {
	// An unfavorite at a later time than the favorite does not cancel it
	// exactly: the pair leaves a small negative residue because the newer
	// negative term has decayed less.
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	lambda := DecayRate(halfLife)
	recipeID := uuid.New()

	score, _ := scoreEvents([]domain.InteractionEvent{
		event(recipeID, domain.EventFavorite, now.AddDate(0, 0, -10)),
		event(recipeID, domain.EventUnfavorite, now.AddDate(0, 0, -2)),
	}, now, lambda)

	assert.Negative(t, score)
}

func TestScoreEvents_OrderIndependent(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	lambda := DecayRate(halfLife)
	recipeID := uuid.New()

	events := []domain.InteractionEvent{
		event(recipeID, domain.EventView, now.AddDate(0, 0, -3)),
		event(recipeID, domain.EventFavorite, now.AddDate(0, 0, -10)),
		event(recipeID, domain.EventDiaryLog, now.AddDate(0, 0, -1)),
	}
	reversed := []domain.InteractionEvent{events[2], events[1], events[0]}

	forward, forwardLast := scoreEvents(events, now, lambda)
	backward, backwardLast := scoreEvents(reversed, now, lambda)

	assert.InDelta(t, forward, backward, 1e-12)
	assert.Equal(t, forwardLast, backwardLast)
}

func TestScoreEvents_Empty(t *testing.T) {
	score, last := scoreEvents(nil, time.Now(), DecayRate(halfLife))

	assert.Zero(t, score)
	assert.True(t, last.IsZero())
}

func TestDecayTo_MatchesFullReplay(t *testing.T) {
	// Rescaling a cached score forward must agree with replaying the whole
	// history at the later instant, for any elapsed time.
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	lambda := DecayRate(halfLife)
	recipeID := uuid.New()

	events := []domain.InteractionEvent{
		event(recipeID, domain.EventView, base.AddDate(0, 0, -20)),
		event(recipeID, domain.EventFavorite, base.AddDate(0, 0, -5)),
		event(recipeID, domain.EventUnfavorite, base.AddDate(0, 0, -4)),
		event(recipeID, domain.EventDiaryLog, base.Add(-6*time.Hour)),
	}

	cached, _ := scoreEvents(events, base, lambda)

	for _, dt := range []time.Duration{time.Second, time.Hour, 36 * time.Hour, 30 * 24 * time.Hour} {
		later := base.Add(dt)
		replayed, _ := scoreEvents(events, later, lambda)
		assert.InDelta(t, replayed, decayTo(cached, base, later, lambda), 1e-9, "dt %s", dt)
	}
}

func TestDecayRate(t *testing.T) {
	lambda := DecayRate(14)

	// After one half-life the decay factor is exactly one half.
	assert.InDelta(t, 0.5, math.Exp(-lambda*14), 1e-12)
}
