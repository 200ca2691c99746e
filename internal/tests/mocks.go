package tests

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"coachbooking/internal/domain"
	"coachbooking/internal/redis"
	"coachbooking/internal/repository"
)

// MockBookingRepository is a thread-safe in-memory implementation of
// repository.BookingRepository. It enforces the same conditional seat
// guard as the SQL implementation: a write fails with ErrSeatTaken when
// another non-cancelled booking holds the (trip, seat) pair.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	CreateCallCount int32
	UpdateCallCount int32
	GetCallCount    int32

	CreateError error
	GetError    error
	UpdateError error
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking seeds a booking into the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = copyBooking(booking)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seatHeldLocked(booking.TripID, booking.SeatNumber, booking.ID) {
		return repository.ErrSeatTaken
	}

	m.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyBooking(booking), nil
}

func (m *MockBookingRepository) GetActiveByTripID(ctx context.Context, tripID int64) ([]*domain.Booking, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []*domain.Booking
	for _, b := range m.bookings {
		if b.TripID == tripID && b.Status != domain.BookingStatusCancel {
			active = append(active, copyBooking(b))
		}
	}
	return active, nil
}

func (m *MockBookingRepository) UpdateWithHistory(ctx context.Context, booking *domain.Booking, entry *domain.BookingStatusHistoryEntry) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.bookings[booking.ID]
	if !ok {
		return repository.ErrNotFound
	}

	if booking.Status != domain.BookingStatusCancel &&
		m.seatHeldLocked(booking.TripID, booking.SeatNumber, booking.ID) {
		return repository.ErrSeatTaken
	}

	updated := copyBooking(booking)
	updated.StatusHistory = append([]domain.BookingStatusHistoryEntry{}, stored.StatusHistory...)
	if entry != nil {
		updated.StatusHistory = append(updated.StatusHistory, *entry)
	}
	m.bookings[booking.ID] = updated
	return nil
}

// HistoryLen reports the stored history length for a booking.
func (m *MockBookingRepository) HistoryLen(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.bookings[id]; ok {
		return len(b.StatusHistory)
	}
	return 0
}

// seatHeldLocked reports whether a non-cancelled booking other than
// excludeID holds the (trip, seat) pair. Caller must hold the lock.
func (m *MockBookingRepository) seatHeldLocked(tripID int64, seat, excludeID string) bool {
	for _, b := range m.bookings {
		if b.ID == excludeID {
			continue
		}
		if b.TripID == tripID && b.SeatNumber == seat && b.Status != domain.BookingStatusCancel {
			return true
		}
	}
	return false
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.StatusHistory = append([]domain.BookingStatusHistoryEntry{}, b.StatusHistory...)
	return &c
}

var _ repository.BookingRepository = (*MockBookingRepository)(nil)

// MockTripRepository is a thread-safe in-memory implementation of
// repository.TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[int64]*domain.Trip

	GetError error
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[int64]*domain.Trip),
	}
}

// AddTrip seeds a trip into the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *trip
	return &c, nil
}

func (m *MockTripRepository) Search(ctx context.Context, sourceID, destID int64, from, to time.Time) ([]*domain.Trip, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*domain.Trip
	for _, trip := range m.trips {
		if trip.Source.ID != sourceID || trip.Destination.ID != destID {
			continue
		}
		if trip.DepartureDateTime.Before(from) || !trip.DepartureDateTime.Before(to) {
			continue
		}
		c := *trip
		results = append(results, &c)
	}
	return results, nil
}

var _ repository.TripRepository = (*MockTripRepository)(nil)

// MockCoachRepository is a thread-safe in-memory implementation of
// repository.CoachRepository.
type MockCoachRepository struct {
	mu      sync.RWMutex
	coaches map[int64]*domain.Coach

	GetCallCount int32
	GetError     error
}

func NewMockCoachRepository() *MockCoachRepository {
	return &MockCoachRepository{
		coaches: make(map[int64]*domain.Coach),
	}
}

// AddCoach seeds a coach into the mock repository.
func (m *MockCoachRepository) AddCoach(coach *domain.Coach) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coaches[coach.ID] = coach
}

func (m *MockCoachRepository) GetByID(ctx context.Context, id int64) (*domain.Coach, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coach, ok := m.coaches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *coach
	return &c, nil
}

var _ repository.CoachRepository = (*MockCoachRepository)(nil)

// MockSeatLockStore is a thread-safe in-memory implementation of
// redis.SeatLockStoreInterface.
type MockSeatLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

func NewMockSeatLockStore() *MockSeatLockStore {
	return &MockSeatLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockSeatLockStore) AcquireSeatLock(ctx context.Context, tripID int64, seatCode string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := seatLockKey(tripID, seatCode)
	if expiry, held := m.locks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockSeatLockStore) ReleaseSeatLock(ctx context.Context, tripID int64, seatCode string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, seatLockKey(tripID, seatCode))
	return nil
}

// HoldLock grabs a seat lock out-of-band, simulating a concurrent session.
func (m *MockSeatLockStore) HoldLock(tripID int64, seatCode string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[seatLockKey(tripID, seatCode)] = time.Now().Add(ttl)
}

func seatLockKey(tripID int64, seatCode string) string {
	return strconv.FormatInt(tripID, 10) + ":" + seatCode
}

var _ redis.SeatLockStoreInterface = (*MockSeatLockStore)(nil)

// MockCoachCache is a thread-safe in-memory implementation of
// redis.CoachCacheInterface.
type MockCoachCache struct {
	mu      sync.RWMutex
	coaches map[int64]*redis.CachedCoach

	GetCallCount int32
	SetCallCount int32
	HitCount     int32

	GetError error
}

func NewMockCoachCache() *MockCoachCache {
	return &MockCoachCache{
		coaches: make(map[int64]*redis.CachedCoach),
	}
}

func (m *MockCoachCache) GetCoach(ctx context.Context, coachID int64) (*redis.CachedCoach, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coach, ok := m.coaches[coachID]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	c := *coach
	return &c, nil
}

func (m *MockCoachCache) SetCoach(ctx context.Context, coach *redis.CachedCoach) error {
	atomic.AddInt32(&m.SetCallCount, 1)

	m.mu.Lock()
	defer m.mu.Unlock()
	c := *coach
	m.coaches[coach.ID] = &c
	return nil
}

var _ redis.CoachCacheInterface = (*MockCoachCache)(nil)
