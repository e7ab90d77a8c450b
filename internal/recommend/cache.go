package recommend

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// scoreEntry caches an affinity score at a reference instant together with
// the key's most recent event time. The score is uniformly decayed forward on
// read; the recorder invalidates the key on every new event, which keeps the
// cache a pure materialized view of the log.
type scoreEntry struct {
	Score     float64
	At        time.Time
	LastEvent time.Time
}

type scoreCache struct {
	lru *expirable.LRU[string, scoreEntry]
}

func newScoreCache(size int, ttl time.Duration) *scoreCache {
	if size <= 0 {
		return nil
	}
	return &scoreCache{lru: expirable.NewLRU[string, scoreEntry](size, nil, ttl)}
}

func cacheKey(userID, recipeID uuid.UUID) string {
	return userID.String() + ":" + recipeID.String()
}

func (c *scoreCache) Get(userID, recipeID uuid.UUID) (scoreEntry, bool) {
	if c == nil {
		return scoreEntry{}, false
	}
	return c.lru.Get(cacheKey(userID, recipeID))
}

func (c *scoreCache) Add(userID, recipeID uuid.UUID, entry scoreEntry) {
	if c == nil {
		return
	}
	c.lru.Add(cacheKey(userID, recipeID), entry)
}

func (c *scoreCache) Remove(userID, recipeID uuid.UUID) {
	if c == nil {
		return
	}
	c.lru.Remove(cacheKey(userID, recipeID))
}
