package service

import (
	"context"
	"errors"

	"saferide/internal/domain"
	"saferide/internal/redis"
	"saferide/internal/repository"
)

// RideService is the composition root consumed by the presentation layer.
// It orchestrates the fare calculator, matcher, lifecycle and settlement
// behind a single request/response contract.
type RideService struct {
	catalog      repository.RideTypeRepository
	catalogCache *redis.CatalogCache
	lifecycle    *Lifecycle
	matcher      MatcherInterface
	settlement   *Settlement
}

// NewRideService creates a new RideService. catalogCache may be nil.
func NewRideService(
	catalog repository.RideTypeRepository,
	catalogCache *redis.CatalogCache,
	lifecycle *Lifecycle,
	matcher MatcherInterface,
	settlement *Settlement,
) *RideService {
	return &RideService{
		catalog:      catalog,
		catalogCache: catalogCache,
		lifecycle:    lifecycle,
		matcher:      matcher,
		settlement:   settlement,
	}
}

// RequestRide prices and creates a ride for the given service tier.
// Fails with ErrUnknownRideType when the tier is not in the catalog; in that
// case no ride is created and no driver is touched.
func (s *RideService) RequestRide(ctx context.Context, userID string, pickup, dropoff domain.Location, rideTypeID string) (*domain.Ride, error) {
	rideType, err := s.lookupRideType(ctx, rideTypeID)
	if err != nil {
		return nil, err
	}

	return s.lifecycle.Create(ctx, userID, pickup, dropoff, *rideType)
}

// ConfirmPaymentResult bundles the outcome of a payment confirmation.
type ConfirmPaymentResult struct {
	Ride    *domain.Ride
	Payment *domain.Payment
}

// ConfirmPayment settles the ride and, on success, advances it to accepted.
// On a declined charge the ride stays in requested state and the failed
// payment is surfaced alongside ErrPaymentDeclined.
func (s *RideService) ConfirmPayment(ctx context.Context, rideID string, method domain.PaymentMethod) (*ConfirmPaymentResult, error) {
	ride, err := s.lifecycle.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}

	payment, err := s.settlement.Settle(ctx, ride, method)
	if err != nil {
		if errors.Is(err, ErrPaymentDeclined) {
			return &ConfirmPaymentResult{Ride: ride, Payment: payment}, err
		}
		return nil, err
	}

	// Already accepted via an earlier settlement; nothing left to advance.
	if ride.Status == domain.RideStatusAccepted {
		return &ConfirmPaymentResult{Ride: ride, Payment: payment}, nil
	}

	updated, err := s.lifecycle.Transition(ctx, rideID, domain.RideStatusAccepted)
	if err != nil {
		return nil, err
	}

	return &ConfirmPaymentResult{Ride: updated, Payment: payment}, nil
}

// TrackResult bundles a ride with its driver's live position and ETA.
type TrackResult struct {
	Ride   *domain.Ride
	Driver *domain.Driver
	ETAMin float64
}

// Track returns the ride together with its driver's current position.
func (s *RideService) Track(ctx context.Context, rideID string) (*TrackResult, error) {
	ride, err := s.lifecycle.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}

	result := &TrackResult{Ride: ride}
	if ride.DriverID == "" {
		return result, nil
	}

	driver, err := s.matcher.Track(ctx, ride.DriverID)
	if err != nil {
		return nil, err
	}
	result.Driver = driver

	// En route to pickup until the trip starts, then to dropoff.
	target := ride.Pickup
	if ride.Status == domain.RideStatusInProgress {
		target = ride.Dropoff
	}
	result.ETAMin = haversineKm(driver.Location, target) * minutesPerKm

	return result, nil
}

// History returns the user's rides in insertion order.
func (s *RideService) History(ctx context.Context, userID string) ([]*domain.Ride, error) {
	return s.lifecycle.ListByUser(ctx, userID)
}

// Advance moves a ride along the state machine (accepted → in_progress →
// completed). Exposed for the driver-side flow.
func (s *RideService) Advance(ctx context.Context, rideID string, target domain.RideStatus) (*domain.Ride, error) {
	return s.lifecycle.Transition(ctx, rideID, target)
}

// Cancel cancels a ride from any non-terminal state.
func (s *RideService) Cancel(ctx context.Context, rideID string) (*domain.Ride, error) {
	return s.lifecycle.Transition(ctx, rideID, domain.RideStatusCancelled)
}

// RideTypes lists the service tier catalog.
func (s *RideService) RideTypes(ctx context.Context) ([]*domain.RideType, error) {
	if s.catalogCache != nil {
		if cached, err := s.catalogCache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	types, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.catalogCache != nil {
		_ = s.catalogCache.Set(ctx, types)
	}

	return types, nil
}

// Receipt builds the fare summary for a completed ride.
func (s *RideService) Receipt(ctx context.Context, rideID string) (*domain.Receipt, error) {
	ride, err := s.lifecycle.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	receipt := &domain.Receipt{
		RideID:       ride.ID,
		UserID:       ride.UserID,
		DriverID:     ride.DriverID,
		Pickup:       ride.Pickup,
		Dropoff:      ride.Dropoff,
		RideTypeName: ride.RideType.Name,
		BasePrice:    ride.RideType.BasePrice,
		PricePerKm:   ride.RideType.PricePerKm,
		DistanceKm:   ride.DistanceKm,
		DurationMin:  ride.DurationMin,
		Total:        RoundPrice(ride.Price),
		CreatedAt:    ride.CreatedAt,
		CompletedAt:  ride.UpdatedAt,
	}

	if payment, err := s.settlement.paymentRepo.GetCompletedByRide(ctx, rideID); err == nil && payment != nil {
		receipt.PaymentMethod = payment.Method
		receipt.PaymentStatus = payment.Status
	}

	return receipt, nil
}

func (s *RideService) lookupRideType(ctx context.Context, rideTypeID string) (*domain.RideType, error) {
	if rideTypeID == "" {
		return nil, ErrUnknownRideType
	}

	rideType, err := s.catalog.GetByID(ctx, rideTypeID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrUnknownRideType
		}
		return nil, err
	}
	return rideType, nil
}
