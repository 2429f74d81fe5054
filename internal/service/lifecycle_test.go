package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"saferide/internal/domain"
	"saferide/internal/service"
)

func TestCreateRide(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))

	ride := stack.mustCreateRide(t, "user-1")

	if ride.Status != domain.RideStatusRequested {
		t.Errorf("status = %s, want requested", ride.Status)
	}
	if ride.DriverID != "d1" {
		t.Errorf("driver = %s, want d1", ride.DriverID)
	}
	if ride.Version != 0 {
		t.Errorf("version = %d, want 0", ride.Version)
	}
	if ride.Price != ride.RideType.BasePrice+ride.DistanceKm*ride.RideType.PricePerKm {
		t.Errorf("price %f does not satisfy the fare formula", ride.Price)
	}

	driver, err := stack.driverRepo.GetByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if driver.IsAvailable || driver.ActiveRideID != ride.ID {
		t.Errorf("driver not bound to ride: %+v", driver)
	}
}

func TestCreateRideInvalidUser(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))

	if _, err := stack.lifecycle.Create(context.Background(), "", pickupSF, dropoffSF, economyType()); !errors.Is(err, service.ErrInvalidUserID) {
		t.Errorf("err = %v, want ErrInvalidUserID", err)
	}
}

func TestCreateRideNoDriverLeavesNoState(t *testing.T) {
	stack := newTestStack(t, nil)

	_, err := stack.lifecycle.Create(context.Background(), "user-1", pickupSF, dropoffSF, economyType())
	if !errors.Is(err, service.ErrNoDriverAvailable) {
		t.Fatalf("err = %v, want ErrNoDriverAvailable", err)
	}

	rides, err := stack.rideRepo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(rides) != 0 {
		t.Errorf("expected no persisted rides, got %d", len(rides))
	}
}

func TestCreateRideInvalidLocationBeforeMatching(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))

	bad := domain.Location{Latitude: 91, Longitude: 0}
	if _, err := stack.lifecycle.Create(context.Background(), "user-1", bad, dropoffSF, economyType()); !errors.Is(err, service.ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}

	// The candidate driver must not have been touched.
	driver, err := stack.driverRepo.GetByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !driver.IsAvailable {
		t.Error("driver bound despite failed ride creation")
	}
}

func TestTransitionFullPath(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
	ride := stack.mustCreateRide(t, "user-1")

	path := []domain.RideStatus{
		domain.RideStatusAccepted,
		domain.RideStatusInProgress,
		domain.RideStatusCompleted,
	}

	version := ride.Version
	for _, target := range path {
		updated := stack.mustTransition(t, ride.ID, target)
		if updated.Status != target {
			t.Fatalf("status = %s, want %s", updated.Status, target)
		}
		if updated.Version != version+1 {
			t.Fatalf("version = %d, want %d", updated.Version, version+1)
		}
		version = updated.Version
	}

	// Completion must free the driver.
	driver, err := stack.driverRepo.GetByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !driver.IsAvailable || driver.ActiveRideID != "" {
		t.Errorf("driver not released after completion: %+v", driver)
	}
}

func TestTransitionRejectsInvalidEdges(t *testing.T) {
	cases := []struct {
		name   string
		setup  []domain.RideStatus
		target domain.RideStatus
	}{
		{"requested to in_progress", nil, domain.RideStatusInProgress},
		{"requested to completed", nil, domain.RideStatusCompleted},
		{"accepted to completed", []domain.RideStatus{domain.RideStatusAccepted}, domain.RideStatusCompleted},
		{"completed is terminal", []domain.RideStatus{domain.RideStatusAccepted, domain.RideStatusInProgress, domain.RideStatusCompleted}, domain.RideStatusCancelled},
		{"cancelled is terminal", []domain.RideStatus{domain.RideStatusCancelled}, domain.RideStatusAccepted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
			ride := stack.mustCreateRide(t, "user-1")
			for _, step := range tc.setup {
				stack.mustTransition(t, ride.ID, step)
			}

			if _, err := stack.lifecycle.Transition(context.Background(), ride.ID, tc.target); !errors.Is(err, service.ErrInvalidTransition) {
				t.Errorf("err = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestCancelFromEveryNonTerminalState(t *testing.T) {
	states := map[string][]domain.RideStatus{
		"requested":   nil,
		"accepted":    {domain.RideStatusAccepted},
		"in_progress": {domain.RideStatusAccepted, domain.RideStatusInProgress},
	}

	for name, setup := range states {
		t.Run(name, func(t *testing.T) {
			stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
			ride := stack.mustCreateRide(t, "user-1")
			for _, step := range setup {
				stack.mustTransition(t, ride.ID, step)
			}

			cancelled := stack.mustTransition(t, ride.ID, domain.RideStatusCancelled)
			if cancelled.Status != domain.RideStatusCancelled {
				t.Fatalf("status = %s, want cancelled", cancelled.Status)
			}

			driver, err := stack.driverRepo.GetByID(context.Background(), "d1")
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if !driver.IsAvailable {
				t.Error("driver not released after cancellation")
			}
		})
	}
}

func TestTransitionUnknownRide(t *testing.T) {
	stack := newTestStack(t, nil)

	if _, err := stack.lifecycle.Transition(context.Background(), "ghost", domain.RideStatusCancelled); !errors.Is(err, service.ErrRideNotFound) {
		t.Errorf("err = %v, want ErrRideNotFound", err)
	}
}

func TestConcurrentCompleteVersusCancel(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
	ride := stack.mustCreateRide(t, "user-1")
	stack.mustTransition(t, ride.ID, domain.RideStatusAccepted)
	stack.mustTransition(t, ride.ID, domain.RideStatusInProgress)

	targets := []domain.RideStatus{domain.RideStatusCompleted, domain.RideStatusCancelled}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.RideStatus) {
			defer wg.Done()
			_, errs[i] = stack.lifecycle.Transition(context.Background(), ride.ID, target)
		}(i, target)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, service.ErrConcurrentModification), errors.Is(err, service.ErrInvalidTransition):
			// The losing transition observes either a lost compare-and-set
			// or an already-terminal ride.
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}

	final, err := stack.lifecycle.Get(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !final.Status.Terminal() {
		t.Errorf("final status %s is not terminal", final.Status)
	}
}
