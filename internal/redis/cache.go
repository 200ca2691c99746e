package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
//
// Only coaches are cached. A coach's type and capacity never change once
// trips have been sold against it, so staleness cannot affect seat
// availability or pricing. Bookings, trips and availability are always read
// fresh from the database.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// CoachCacheTTL bounds how long a coach record may be served from cache.
const CoachCacheTTL = 10 * time.Minute

const coachCachePrefix = "cache:coach:"

// CachedCoach represents a cached coach entity.
type CachedCoach struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CoachType string `json:"coach_type"`
	Capacity  int    `json:"capacity"`
}

// GetCoach retrieves a coach from cache. A nil result means cache miss.
func (s *CacheStore) GetCoach(ctx context.Context, coachID int64) (*CachedCoach, error) {
	key := coachCacheKey(coachID)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var coach CachedCoach
	if err := json.Unmarshal(data, &coach); err != nil {
		return nil, err
	}
	return &coach, nil
}

// SetCoach stores a coach in cache.
func (s *CacheStore) SetCoach(ctx context.Context, coach *CachedCoach) error {
	data, err := json.Marshal(coach)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, coachCacheKey(coach.ID), data, CoachCacheTTL).Err()
}

func coachCacheKey(coachID int64) string {
	return coachCachePrefix + strconv.FormatInt(coachID, 10)
}
