package domain

import "time"

// Receipt summarizes a completed ride for presentation.
type Receipt struct {
	RideID        string
	UserID        string
	DriverID      string
	Pickup        Location
	Dropoff       Location
	RideTypeName  string
	BasePrice     float64
	PricePerKm    float64
	DistanceKm    float64
	DurationMin   float64
	Total         float64
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	CompletedAt   time.Time
}
