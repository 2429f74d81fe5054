package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"saferide/internal/domain"
	"saferide/internal/redis"
	"saferide/internal/repository"
)

const rideLockTTL = 5 * time.Second

// Lifecycle owns the Ride entity: creation, status transitions and reads.
// All Ride.Status mutations go through Transition; no other component writes
// the field.
type Lifecycle struct {
	rideRepo  repository.RideRepository
	matcher   MatcherInterface
	lockStore redis.LockStoreInterface
	notifier  *NotificationService
}

// NewLifecycle creates a new Lifecycle. lockStore may be nil; the
// compare-and-set commit in the repository stays the correctness guarantee
// either way, the lock only short-circuits racing transitions early.
func NewLifecycle(
	rideRepo repository.RideRepository,
	matcher MatcherInterface,
	lockStore redis.LockStoreInterface,
	notifier *NotificationService,
) *Lifecycle {
	return &Lifecycle{
		rideRepo:  rideRepo,
		matcher:   matcher,
		lockStore: lockStore,
		notifier:  notifier,
	}
}

// Create prices the ride, assigns a driver and persists the ride in
// requested state. When matching fails nothing is persisted; when persisting
// fails the assigned driver is released again. No partial state survives.
func (l *Lifecycle) Create(ctx context.Context, userID string, pickup, dropoff domain.Location, rideType domain.RideType) (*domain.Ride, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	fare, err := ComputeFare(pickup, dropoff, rideType)
	if err != nil {
		return nil, err
	}

	rideID := uuid.New().String()

	driver, err := l.matcher.Assign(ctx, rideID, pickup)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ride := &domain.Ride{
		ID:          rideID,
		UserID:      userID,
		DriverID:    driver.ID,
		Pickup:      pickup,
		Dropoff:     dropoff,
		RideType:    rideType,
		Status:      domain.RideStatusRequested,
		Price:       fare.Price,
		DistanceKm:  fare.DistanceKm,
		DurationMin: fare.DurationMin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := l.rideRepo.Create(ctx, ride); err != nil {
		_ = l.matcher.Release(ctx, driver.ID)
		return nil, err
	}

	if l.notifier != nil {
		l.notifier.NotifyDriverAssigned(ctx, ride, driver)
	}

	return ride, nil
}

// Transition moves a ride along the state machine. Concurrent transitions on
// the same ride are serialized by a compare-and-set commit: exactly one of
// two racing callers succeeds, the loser gets ErrConcurrentModification.
func (l *Lifecycle) Transition(ctx context.Context, rideID string, target domain.RideStatus) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	if l.lockStore != nil {
		locked, err := l.lockStore.AcquireRideLock(ctx, rideID, rideLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrConcurrentModification
		}
		defer func() { _ = l.lockStore.ReleaseRideLock(ctx, rideID) }()
	}

	ride, err := l.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(ride.Status, target) {
		return nil, ErrInvalidTransition
	}

	ok, err := l.rideRepo.UpdateStatus(ctx, rideID, ride.Status, target, ride.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConcurrentModification
	}

	if target.Terminal() && ride.DriverID != "" {
		_ = l.matcher.Release(ctx, ride.DriverID)
	}

	updated, err := l.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if l.notifier != nil {
		l.notifier.NotifyStatusChanged(ctx, updated, ride.Status)
	}

	return updated, nil
}

// Get retrieves a ride by ID.
func (l *Lifecycle) Get(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := l.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return ride, nil
}

// ListByUser retrieves a user's rides in insertion order.
func (l *Lifecycle) ListByUser(ctx context.Context, userID string) ([]*domain.Ride, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return l.rideRepo.GetByUser(ctx, userID)
}
