package service_test

import (
	"context"
	"testing"

	"saferide/internal/domain"
	"saferide/internal/repository/memory"
	"saferide/internal/service"
)

// Fixed demo coordinates around San Francisco used across the suite.
var (
	pickupSF  = domain.Location{Latitude: 37.7749, Longitude: -122.4194, Address: "Market St"}
	dropoffSF = domain.Location{Latitude: 37.7849, Longitude: -122.4294, Address: "Pacific Heights"}
	oakland   = domain.Location{Latitude: 37.8044, Longitude: -122.2712, Address: "Oakland"}
)

func economyType() domain.RideType {
	return domain.RideType{
		ID:         "economy",
		Name:       "Economy",
		BasePrice:  5,
		PricePerKm: 1.5,
	}
}

func makeDriver(id string, loc domain.Location, rating float64) *domain.Driver {
	return &domain.Driver{
		ID:          id,
		Name:        "Driver " + id,
		Vehicle:     "Toyota Prius",
		Rating:      rating,
		Location:    loc,
		IsAvailable: true,
	}
}

// testStack bundles the full service graph on in-memory repositories.
type testStack struct {
	rideRepo    *memory.RideRepository
	driverRepo  *memory.DriverRepository
	paymentRepo *memory.PaymentRepository
	matcher     *service.Matcher
	lifecycle   *service.Lifecycle
	settlement  *service.Settlement
	rides       *service.RideService
}

func newTestStack(t *testing.T, policy service.SettlementPolicy, drivers ...*domain.Driver) *testStack {
	t.Helper()

	rideRepo := memory.NewRideRepository()
	driverRepo := memory.NewDriverRepository()
	paymentRepo := memory.NewPaymentRepository()
	catalog := memory.NewRideTypeRepository(domain.DefaultRideTypes())

	for _, d := range drivers {
		if err := driverRepo.Create(context.Background(), d); err != nil {
			t.Fatalf("seed driver %s: %v", d.ID, err)
		}
	}

	if policy == nil {
		policy = service.NewApproveAllPolicy()
	}

	matcher := service.NewMatcher(driverRepo, nil, nil)
	lifecycle := service.NewLifecycle(rideRepo, matcher, nil, nil)
	settlement := service.NewSettlement(paymentRepo, policy, nil)
	rides := service.NewRideService(catalog, nil, lifecycle, matcher, settlement)

	return &testStack{
		rideRepo:    rideRepo,
		driverRepo:  driverRepo,
		paymentRepo: paymentRepo,
		matcher:     matcher,
		lifecycle:   lifecycle,
		settlement:  settlement,
		rides:       rides,
	}
}

func (s *testStack) mustCreateRide(t *testing.T, userID string) *domain.Ride {
	t.Helper()
	ride, err := s.lifecycle.Create(context.Background(), userID, pickupSF, dropoffSF, economyType())
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

func (s *testStack) mustTransition(t *testing.T, rideID string, target domain.RideStatus) *domain.Ride {
	t.Helper()
	ride, err := s.lifecycle.Transition(context.Background(), rideID, target)
	if err != nil {
		t.Fatalf("transition to %s: %v", target, err)
	}
	return ride
}
