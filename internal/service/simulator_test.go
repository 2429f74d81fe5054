package service_test

import (
	"context"
	"testing"
	"time"

	"saferide/internal/domain"
	"saferide/internal/service"
)

func simHaversineKm(a, b domain.Location) float64 {
	fare, _ := service.ComputeFare(a, b, domain.RideType{})
	return fare.DistanceKm
}

func TestSimulatorMovesDriverTowardPickup(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", oakland, 4.5))
	ctx := context.Background()

	ride := stack.mustCreateRide(t, "user-1")
	stack.mustTransition(t, ride.ID, domain.RideStatusAccepted)

	sim := service.NewProgressSimulator(stack.rideRepo, stack.matcher, time.Second)

	before, err := stack.matcher.Track(ctx, "d1")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	startDistance := simHaversineKm(before.Location, ride.Pickup)

	sim.Tick(ctx)

	after, err := stack.matcher.Track(ctx, "d1")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if got := simHaversineKm(after.Location, ride.Pickup); got >= startDistance {
		t.Errorf("driver did not move toward pickup: %f -> %f km", startDistance, got)
	}
}

func TestSimulatorConvergesAndSnaps(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", oakland, 4.5))
	ctx := context.Background()

	ride := stack.mustCreateRide(t, "user-1")
	stack.mustTransition(t, ride.ID, domain.RideStatusAccepted)

	sim := service.NewProgressSimulator(stack.rideRepo, stack.matcher, time.Second)
	for i := 0; i < 100; i++ {
		sim.Tick(ctx)
	}

	driver, err := stack.matcher.Track(ctx, "d1")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if driver.Location.Latitude != ride.Pickup.Latitude || driver.Location.Longitude != ride.Pickup.Longitude {
		t.Errorf("driver did not snap to pickup: %+v", driver.Location)
	}
}

func TestSimulatorNeverWritesRideState(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", oakland, 4.5))
	ctx := context.Background()

	ride := stack.mustCreateRide(t, "user-1")
	accepted := stack.mustTransition(t, ride.ID, domain.RideStatusAccepted)

	sim := service.NewProgressSimulator(stack.rideRepo, stack.matcher, time.Second)
	for i := 0; i < 5; i++ {
		sim.Tick(ctx)
	}

	current, err := stack.lifecycle.Get(ctx, ride.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.Status != domain.RideStatusAccepted {
		t.Errorf("status = %s, want accepted", current.Status)
	}
	if current.Version != accepted.Version {
		t.Errorf("version = %d, want %d", current.Version, accepted.Version)
	}
	if current.Price != accepted.Price {
		t.Errorf("price changed: %f vs %f", current.Price, accepted.Price)
	}
}

func TestSimulatorSwitchesTargetInProgress(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
	ctx := context.Background()

	ride := stack.mustCreateRide(t, "user-1")
	stack.mustTransition(t, ride.ID, domain.RideStatusAccepted)
	stack.mustTransition(t, ride.ID, domain.RideStatusInProgress)

	sim := service.NewProgressSimulator(stack.rideRepo, stack.matcher, time.Second)

	before, _ := stack.matcher.Track(ctx, "d1")
	startDistance := simHaversineKm(before.Location, ride.Dropoff)

	sim.Tick(ctx)

	after, _ := stack.matcher.Track(ctx, "d1")
	if got := simHaversineKm(after.Location, ride.Dropoff); got >= startDistance {
		t.Errorf("driver did not move toward dropoff: %f -> %f km", startDistance, got)
	}
}

func TestSimulatorIgnoresTerminalRides(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", oakland, 4.5))
	ctx := context.Background()

	ride := stack.mustCreateRide(t, "user-1")
	stack.mustTransition(t, ride.ID, domain.RideStatusCancelled)

	sim := service.NewProgressSimulator(stack.rideRepo, stack.matcher, time.Second)
	sim.Tick(ctx)

	driver, err := stack.matcher.Track(ctx, "d1")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if !driver.Location.Equal(oakland) {
		t.Errorf("driver moved for a cancelled ride: %+v", driver.Location)
	}
}

func TestSimulatorRunStopsOnCancel(t *testing.T) {
	stack := newTestStack(t, nil)
	sim := service.NewProgressSimulator(stack.rideRepo, stack.matcher, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("simulator did not stop after context cancellation")
	}
}
