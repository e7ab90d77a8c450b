package recommend

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/logger"
	"github.com/YobelBerhe/CoachOS-sub000/internal/metrics"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

// Service defines the interface for recommendation scoring
type Service interface {
	// Rank scores the candidate recipes for the user and returns them best
	// first. Ties break by most-recent event descending, then by recipe id,
	// so rankings are deterministic.
	Rank(ctx context.Context, userID uuid.UUID, candidateRecipeIDs []uuid.UUID) ([]domain.RankedRecipe, error)

	// Invalidate drops the cached score for a key. Satisfies
	// interaction.ScoreInvalidator.
	Invalidate(userID, recipeID uuid.UUID)
}

type service struct {
	events repository.Interaction
	cache  *scoreCache
	lambda float64
	now    func() time.Time // for tests
}

// NewService creates a new recommendation scorer. cacheSize <= 0 disables the
// incremental cache and every Rank replays the log.
func NewService(events repository.Interaction, halfLifeDays float64, cacheSize int, cacheTTL time.Duration) Service {
	return &service{
		events: events,
		cache:  newScoreCache(cacheSize, cacheTTL),
		lambda: DecayRate(halfLifeDays),
		now:    time.Now,
	}
}

type rankedCandidate struct {
	recipeID  uuid.UUID
	score     float64
	lastEvent time.Time
}

func (s *service) Rank(ctx context.Context, userID uuid.UUID, candidateRecipeIDs []uuid.UUID) ([]domain.RankedRecipe, error) {
	log := logger.FromContext(ctx)
	metrics.RankRequests.Inc()

	now := s.now()
	candidates := dedupe(candidateRecipeIDs)

	ranked := make([]rankedCandidate, 0, len(candidates))
	var misses []uuid.UUID

	for _, recipeID := range candidates {
		if entry, ok := s.cache.Get(userID, recipeID); ok {
			metrics.ScoreCacheHits.Inc()
			ranked = append(ranked, rankedCandidate{
				recipeID:  recipeID,
				score:     decayTo(entry.Score, entry.At, now, s.lambda),
				lastEvent: entry.LastEvent,
			})
			continue
		}
		metrics.ScoreCacheMisses.Inc()
		misses = append(misses, recipeID)
	}

	if len(misses) > 0 {
		events, err := s.events.ListByUserAndRecipes(ctx, userID, misses)
		if err != nil {
			log.Error("Failed to load interaction events for ranking", "error", err, "user_id", userID)
			return nil, err
		}

		byRecipe := make(map[uuid.UUID][]domain.InteractionEvent, len(misses))
		for _, event := range events {
			byRecipe[event.RecipeID] = append(byRecipe[event.RecipeID], event)
		}

		for _, recipeID := range misses {
			score, lastEvent := scoreEvents(byRecipe[recipeID], now, s.lambda)
			s.cache.Add(userID, recipeID, scoreEntry{Score: score, At: now, LastEvent: lastEvent})
			ranked = append(ranked, rankedCandidate{recipeID: recipeID, score: score, lastEvent: lastEvent})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if !ranked[i].lastEvent.Equal(ranked[j].lastEvent) {
			return ranked[i].lastEvent.After(ranked[j].lastEvent)
		}
		return strings.Compare(ranked[i].recipeID.String(), ranked[j].recipeID.String()) < 0
	})

	result := make([]domain.RankedRecipe, len(ranked))
	for i, c := range ranked {
		result[i] = domain.RankedRecipe{RecipeID: c.recipeID, Score: c.score}
	}
	return result, nil
}

func (s *service) Invalidate(userID, recipeID uuid.UUID) {
	s.cache.Remove(userID, recipeID)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
