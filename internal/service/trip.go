package service

import (
	"context"
	"time"

	"coachbooking/internal/domain"
	"coachbooking/internal/redis"
	"coachbooking/internal/repository"
)

// TripService resolves trips with their coaches and exposes the trip
// search consumed by the booking flow. Coaches are immutable reference
// data, so lookups go through a cache-aside redis store when one is wired.
type TripService struct {
	tripRepo    repository.TripRepository
	coachRepo   repository.CoachRepository
	bookingRepo repository.BookingRepository
	coachCache  redis.CoachCacheInterface
}

// NewTripService creates a new TripService. coachCache may be nil.
func NewTripService(
	tripRepo repository.TripRepository,
	coachRepo repository.CoachRepository,
	bookingRepo repository.BookingRepository,
	coachCache redis.CoachCacheInterface,
) *TripService {
	return &TripService{
		tripRepo:    tripRepo,
		coachRepo:   coachRepo,
		bookingRepo: bookingRepo,
		coachCache:  coachCache,
	}
}

// TripSummary is a trip with its live seats-left count, as shown on the
// trip cards during trip selection.
type TripSummary struct {
	Trip      *domain.Trip
	SeatsLeft int
}

// GetTrip retrieves a trip with its coach resolved.
func (s *TripService) GetTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	if tripID <= 0 {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	coach, err := s.getCoach(ctx, trip.CoachID)
	if err != nil {
		return nil, err
	}
	trip.Coach = *coach

	return trip, nil
}

// Search finds trips by source, destination and departure date range and
// attaches the seats-left count. Seat counts are read fresh per trip; only
// the coach record comes from cache.
func (s *TripService) Search(ctx context.Context, sourceID, destID int64, from, to time.Time) ([]*TripSummary, error) {
	if sourceID <= 0 || destID <= 0 {
		return nil, ErrInvalidTripID
	}

	trips, err := s.tripRepo.Search(ctx, sourceID, destID, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]*TripSummary, 0, len(trips))
	for _, trip := range trips {
		coach, err := s.getCoach(ctx, trip.CoachID)
		if err != nil {
			return nil, err
		}
		trip.Coach = *coach

		held, err := s.bookingRepo.GetActiveByTripID(ctx, trip.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, &TripSummary{
			Trip:      trip,
			SeatsLeft: coach.Capacity - len(held),
		})
	}
	return summaries, nil
}

// getCoach resolves a coach through the cache-aside store, falling back to
// the repository on miss or cache error.
func (s *TripService) getCoach(ctx context.Context, coachID int64) (*domain.Coach, error) {
	if s.coachCache != nil {
		cached, err := s.coachCache.GetCoach(ctx, coachID)
		if err == nil && cached != nil {
			return &domain.Coach{
				ID:        cached.ID,
				Name:      cached.Name,
				CoachType: domain.CoachType(cached.CoachType),
				Capacity:  cached.Capacity,
			}, nil
		}
	}

	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		return nil, err
	}

	if s.coachCache != nil {
		_ = s.coachCache.SetCoach(ctx, &redis.CachedCoach{
			ID:        coach.ID,
			Name:      coach.Name,
			CoachType: string(coach.CoachType),
			Capacity:  coach.Capacity,
		})
	}

	return coach, nil
}
