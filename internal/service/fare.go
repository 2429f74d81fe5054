package service

import (
	"math"

	"saferide/internal/domain"
)

const (
	earthRadiusKm = 6371.0

	// minutesPerKm converts distance to an estimated trip duration,
	// assuming a 30 km/h average urban speed.
	minutesPerKm = 2.0
)

// Fare is the priced estimate for a pickup/dropoff pair.
type Fare struct {
	DistanceKm  float64
	DurationMin float64
	Price       float64
}

// ComputeFare prices a ride for the given locations and service tier.
// The result is deterministic: identical inputs always produce identical
// output, and the price satisfies basePrice + distance * pricePerKm exactly.
func ComputeFare(pickup, dropoff domain.Location, rideType domain.RideType) (Fare, error) {
	if !pickup.Valid() || !dropoff.Valid() {
		return Fare{}, ErrInvalidLocation
	}

	distance := haversineKm(pickup, dropoff)
	return Fare{
		DistanceKm:  distance,
		DurationMin: distance * minutesPerKm,
		Price:       rideType.BasePrice + distance*rideType.PricePerKm,
	}, nil
}

// RoundPrice rounds a price to currency precision for presentation.
// Internally prices are kept unrounded.
func RoundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}

// haversineKm returns the great-circle distance between two locations.
func haversineKm(a, b domain.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
