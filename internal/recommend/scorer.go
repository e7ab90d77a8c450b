package recommend

import (
	"math"
	"time"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
)

// Interaction weights. Unfavorite is the signed negative of favorite, so a
// favorite/unfavorite/favorite history nets out to exactly one favorite's
// decayed contribution.
const (
	weightView       = 1.0
	weightFavorite   = 5.0
	weightUnfavorite = -5.0
	weightDiaryLog   = 8.0
)

const hoursPerDay = 24.0

// DecayRate returns the exponential decay constant for a half-life in days
// (ln 2 / halfLifeDays, applied per day of event age).
func DecayRate(halfLifeDays float64) float64 {
	return math.Ln2 / halfLifeDays
}

func eventWeight(t domain.EventType) float64 {
	switch t {
	case domain.EventView:
		return weightView
	case domain.EventFavorite:
		return weightFavorite
	case domain.EventUnfavorite:
		return weightUnfavorite
	case domain.EventDiaryLog:
		return weightDiaryLog
	}
	return 0
}

// scoreEvents replays a (user, recipe) event history into its affinity score
// at instant now: sum of weight(type) * exp(-lambda * age_in_days). The
// result is a pure function of the event set — arrival order never matters —
// so a full replay is always the authoritative answer.
func scoreEvents(events []domain.InteractionEvent, now time.Time, lambda float64) (float64, time.Time) {
	var score float64
	var lastEvent time.Time
	for _, event := range events {
		ageDays := now.Sub(event.OccurredAt).Hours() / hoursPerDay
		score += eventWeight(event.EventType) * math.Exp(-lambda*ageDays)
		if event.OccurredAt.After(lastEvent) {
			lastEvent = event.OccurredAt
		}
	}
	return score, lastEvent
}

// decayTo shifts a score computed at instant "at" forward to instant "now".
// Every term of the sum decays by the same exp(-lambda*dt) factor, so a
// uniform rescale of the cached total is exactly equivalent to a full replay.
func decayTo(score float64, at, now time.Time, lambda float64) float64 {
	dtDays := now.Sub(at).Hours() / hoursPerDay
	return score * math.Exp(-lambda*dtDays)
}
