package redis

import (
	"context"
	"time"
)

// SeatLockStoreInterface defines the interface for seat-level locking.
type SeatLockStoreInterface interface {
	AcquireSeatLock(ctx context.Context, tripID int64, seatCode string, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, tripID int64, seatCode string) error
}

// CoachCacheInterface defines the interface for coach cache lookups.
type CoachCacheInterface interface {
	GetCoach(ctx context.Context, coachID int64) (*CachedCoach, error)
	SetCoach(ctx context.Context, coach *CachedCoach) error
}

// Ensure concrete types implement interfaces.
var (
	_ SeatLockStoreInterface = (*LockStore)(nil)
	_ CoachCacheInterface    = (*CacheStore)(nil)
)
