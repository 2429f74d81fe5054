package service_test

import (
	"math"
	"testing"

	"saferide/internal/domain"
	"saferide/internal/service"
)

func TestComputeFareFormula(t *testing.T) {
	fare, err := service.ComputeFare(pickupSF, dropoffSF, economyType())
	if err != nil {
		t.Fatalf("ComputeFare: %v", err)
	}

	if fare.DistanceKm <= 0 {
		t.Fatalf("expected positive distance, got %f", fare.DistanceKm)
	}
	// Roughly 1.4 km between the two fixture points.
	if fare.DistanceKm < 1.0 || fare.DistanceKm > 2.0 {
		t.Errorf("distance out of expected range: %f", fare.DistanceKm)
	}

	wantPrice := 5 + fare.DistanceKm*1.5
	if fare.Price != wantPrice {
		t.Errorf("price = %f, want %f", fare.Price, wantPrice)
	}

	wantDuration := fare.DistanceKm * 2
	if fare.DurationMin != wantDuration {
		t.Errorf("duration = %f, want %f", fare.DurationMin, wantDuration)
	}
}

func TestComputeFareDeterministic(t *testing.T) {
	first, err := service.ComputeFare(pickupSF, dropoffSF, economyType())
	if err != nil {
		t.Fatalf("ComputeFare: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := service.ComputeFare(pickupSF, dropoffSF, economyType())
		if err != nil {
			t.Fatalf("ComputeFare: %v", err)
		}
		if again != first {
			t.Fatalf("fare changed between calls: %+v vs %+v", again, first)
		}
	}
}

func TestComputeFareZeroDistance(t *testing.T) {
	fare, err := service.ComputeFare(pickupSF, pickupSF, economyType())
	if err != nil {
		t.Fatalf("ComputeFare: %v", err)
	}

	if fare.DistanceKm != 0 {
		t.Errorf("distance = %f, want 0", fare.DistanceKm)
	}
	if fare.Price != 5 {
		t.Errorf("price = %f, want base price 5", fare.Price)
	}
}

func TestComputeFareTierPricing(t *testing.T) {
	types := domain.DefaultRideTypes()
	if len(types) < 2 {
		t.Fatal("expected at least two tiers in the default catalog")
	}

	var prev float64
	for i, rt := range types {
		fare, err := service.ComputeFare(pickupSF, dropoffSF, *rt)
		if err != nil {
			t.Fatalf("ComputeFare(%s): %v", rt.ID, err)
		}
		if i > 0 && fare.Price <= prev {
			t.Errorf("tier %s price %f not above previous tier price %f", rt.ID, fare.Price, prev)
		}
		prev = fare.Price
	}
}

func TestComputeFareInvalidLocations(t *testing.T) {
	cases := []struct {
		name    string
		pickup  domain.Location
		dropoff domain.Location
	}{
		{"nan latitude", domain.Location{Latitude: math.NaN(), Longitude: 0}, dropoffSF},
		{"inf longitude", pickupSF, domain.Location{Latitude: 0, Longitude: math.Inf(1)}},
		{"latitude out of range", domain.Location{Latitude: 91, Longitude: 0}, dropoffSF},
		{"longitude out of range", pickupSF, domain.Location{Latitude: 0, Longitude: -181}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.ComputeFare(tc.pickup, tc.dropoff, economyType()); err != service.ErrInvalidLocation {
				t.Errorf("err = %v, want ErrInvalidLocation", err)
			}
		})
	}
}

func TestRoundPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{7.123, 7.12},
		{7.125, 7.13},
		{7.999, 8.00},
		{5, 5},
	}

	for _, tc := range cases {
		if got := service.RoundPrice(tc.in); got != tc.want {
			t.Errorf("RoundPrice(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}
