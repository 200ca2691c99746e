package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
//
// Seat locks are a fast-path guard held only for the duration of a booking
// write. The authoritative protection against double-booking is the
// conditional SQL write in the booking repository; the lock just rejects
// obviously-lost races before touching the database.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSeatLock attempts to acquire a lock on a (trip, seat) pair.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireSeatLock(ctx context.Context, tripID int64, seatCode string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:seat:%d:%s", tripID, seatCode)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSeatLock releases the lock on a (trip, seat) pair.
func (s *LockStore) ReleaseSeatLock(ctx context.Context, tripID int64, seatCode string) error {
	key := fmt.Sprintf("lock:seat:%d:%s", tripID, seatCode)

	return s.client.Del(ctx, key).Err()
}
