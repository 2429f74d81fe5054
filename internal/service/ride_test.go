package service_test

import (
	"context"
	"errors"
	"testing"

	"saferide/internal/domain"
	"saferide/internal/service"
)

func TestRequestRideUnknownType(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
	ctx := context.Background()

	if _, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, dropoffSF, "hoverboard"); !errors.Is(err, service.ErrUnknownRideType) {
		t.Fatalf("err = %v, want ErrUnknownRideType", err)
	}

	// Neither a ride nor a driver binding may exist afterwards.
	rides, err := stack.rideRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(rides) != 0 {
		t.Errorf("expected no rides, got %d", len(rides))
	}
	driver, err := stack.driverRepo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !driver.IsAvailable {
		t.Error("driver bound despite rejected request")
	}
}

func TestFullRideFlow(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
	ctx := context.Background()

	ride, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, dropoffSF, "economy")
	if err != nil {
		t.Fatalf("RequestRide: %v", err)
	}
	if ride.Status != domain.RideStatusRequested {
		t.Fatalf("status = %s, want requested", ride.Status)
	}

	result, err := stack.rides.ConfirmPayment(ctx, ride.ID, domain.PaymentMethodCard)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if result.Ride.Status != domain.RideStatusAccepted {
		t.Errorf("status after payment = %s, want accepted", result.Ride.Status)
	}
	if result.Payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("payment status = %s, want completed", result.Payment.Status)
	}

	if _, err := stack.rides.Advance(ctx, ride.ID, domain.RideStatusInProgress); err != nil {
		t.Fatalf("Advance to in_progress: %v", err)
	}
	completed, err := stack.rides.Advance(ctx, ride.ID, domain.RideStatusCompleted)
	if err != nil {
		t.Fatalf("Advance to completed: %v", err)
	}
	if completed.Status != domain.RideStatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}

	receipt, err := stack.rides.Receipt(ctx, ride.ID)
	if err != nil {
		t.Fatalf("Receipt: %v", err)
	}
	if receipt.Total != service.RoundPrice(ride.Price) {
		t.Errorf("receipt total = %f, want %f", receipt.Total, service.RoundPrice(ride.Price))
	}
	if receipt.PaymentMethod != domain.PaymentMethodCard {
		t.Errorf("receipt payment method = %s, want card", receipt.PaymentMethod)
	}
	if receipt.RideTypeName != "Economy" {
		t.Errorf("receipt ride type = %s, want Economy", receipt.RideTypeName)
	}

	driver, err := stack.driverRepo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !driver.IsAvailable {
		t.Error("driver not available after completed ride")
	}
}

func TestConfirmPaymentDeclinedKeepsRideRequested(t *testing.T) {
	stack := newTestStack(t, declineAllPolicy{}, makeDriver("d1", pickupSF, 4.5))
	ctx := context.Background()

	ride, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, dropoffSF, "economy")
	if err != nil {
		t.Fatalf("RequestRide: %v", err)
	}

	result, err := stack.rides.ConfirmPayment(ctx, ride.ID, domain.PaymentMethodCard)
	if !errors.Is(err, service.ErrPaymentDeclined) {
		t.Fatalf("err = %v, want ErrPaymentDeclined", err)
	}
	if result == nil || result.Payment == nil {
		t.Fatal("declined confirmation returned no payment record")
	}
	if result.Payment.Status != domain.PaymentStatusFailed {
		t.Errorf("payment status = %s, want failed", result.Payment.Status)
	}
	if result.Ride.Status != domain.RideStatusRequested {
		t.Errorf("ride status = %s, want requested", result.Ride.Status)
	}
}

func TestTrackTargetsSwitchWithStatus(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", oakland, 4.5))
	ctx := context.Background()

	ride, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, dropoffSF, "economy")
	if err != nil {
		t.Fatalf("RequestRide: %v", err)
	}

	tracked, err := stack.rides.Track(ctx, ride.ID)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if tracked.Driver == nil {
		t.Fatal("tracked ride has no driver")
	}
	etaToPickup := tracked.ETAMin
	if etaToPickup <= 0 {
		t.Fatalf("eta = %f, want positive", etaToPickup)
	}

	if _, err := stack.rides.ConfirmPayment(ctx, ride.ID, domain.PaymentMethodCard); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if _, err := stack.rides.Advance(ctx, ride.ID, domain.RideStatusInProgress); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	tracked, err = stack.rides.Track(ctx, ride.ID)
	if err != nil {
		t.Fatalf("Track after start: %v", err)
	}
	// The driver has not moved, so an ETA change proves the target switched
	// from pickup to dropoff.
	if tracked.ETAMin == etaToPickup {
		t.Error("eta unchanged after trip start; target did not switch to dropoff")
	}
}

func TestTrackUnknownRide(t *testing.T) {
	stack := newTestStack(t, nil)

	if _, err := stack.rides.Track(context.Background(), "ghost"); !errors.Is(err, service.ErrRideNotFound) {
		t.Errorf("err = %v, want ErrRideNotFound", err)
	}
}

func TestHistoryOrder(t *testing.T) {
	stack := newTestStack(t, nil,
		makeDriver("d1", pickupSF, 4.5),
		makeDriver("d2", pickupSF, 4.5),
	)
	ctx := context.Background()

	first, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, dropoffSF, "economy")
	if err != nil {
		t.Fatalf("RequestRide: %v", err)
	}
	second, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, oakland, "premium")
	if err != nil {
		t.Fatalf("RequestRide: %v", err)
	}
	if _, err := stack.rides.RequestRide(ctx, "user-2", pickupSF, dropoffSF, "economy"); !errors.Is(err, service.ErrNoDriverAvailable) {
		t.Fatalf("expected fleet exhausted, got %v", err)
	}

	history, err := stack.rides.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Error("history not in insertion order")
	}
}

func TestReceiptRequiresCompletion(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
	ctx := context.Background()

	ride, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, dropoffSF, "economy")
	if err != nil {
		t.Fatalf("RequestRide: %v", err)
	}

	if _, err := stack.rides.Receipt(ctx, ride.ID); !errors.Is(err, service.ErrRideNotCompleted) {
		t.Errorf("err = %v, want ErrRideNotCompleted", err)
	}
}

func TestCancelReleasesDriverForNextRequest(t *testing.T) {
	stack := newTestStack(t, nil, makeDriver("d1", pickupSF, 4.5))
	ctx := context.Background()

	ride, err := stack.rides.RequestRide(ctx, "user-1", pickupSF, dropoffSF, "economy")
	if err != nil {
		t.Fatalf("RequestRide: %v", err)
	}
	if _, err := stack.rides.Cancel(ctx, ride.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	next, err := stack.rides.RequestRide(ctx, "user-2", pickupSF, dropoffSF, "economy")
	if err != nil {
		t.Fatalf("RequestRide after cancel: %v", err)
	}
	if next.DriverID != "d1" {
		t.Errorf("driver = %s, want d1 reassigned", next.DriverID)
	}
}

func TestRideTypesCatalog(t *testing.T) {
	stack := newTestStack(t, nil)

	types, err := stack.rides.RideTypes(context.Background())
	if err != nil {
		t.Fatalf("RideTypes: %v", err)
	}
	if len(types) != len(domain.DefaultRideTypes()) {
		t.Fatalf("catalog size = %d, want %d", len(types), len(domain.DefaultRideTypes()))
	}
	if types[0].ID != "economy" {
		t.Errorf("first tier = %s, want economy", types[0].ID)
	}
}
