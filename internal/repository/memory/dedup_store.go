package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupStore remembers webhook event ids so redelivered payloads are
// processed once. Redis backs the store when available; the local cache
// covers single-instance deployments and Redis outages.
type DedupStore struct {
	rdb   *redis.Client
	local *cache.Cache
}

func NewDedupStore(rdb *redis.Client) *DedupStore {
	return &DedupStore{
		rdb:   rdb,
		local: cache.New(dedupTTL, 1*time.Hour),
	}
}

// MarkSeen returns true if the event id was NOT seen before, claiming it
// atomically.
func (s *DedupStore) MarkSeen(ctx context.Context, eventID string) bool {
	if s.rdb != nil {
		ok, err := s.rdb.SetNX(ctx, "dedup:"+eventID, 1, dedupTTL).Result()
		if err == nil {
			return ok
		}
		// Redis down, fall through to the local cache
	}

	if _, found := s.local.Get(eventID); found {
		return false
	}
	s.local.Set(eventID, struct{}{}, cache.DefaultExpiration)
	return true
}
