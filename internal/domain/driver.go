package domain

// Driver represents a driver in the system.
// IsAvailable and ActiveRideID are kept consistent by the matcher: a driver
// bound to an active ride is never returned by availability queries.
type Driver struct {
	ID           string
	Name         string
	Vehicle      string
	LicensePlate string
	Rating       float64 // 0..5
	Location     Location
	IsAvailable  bool
	ActiveRideID string // empty when not bound to a ride
}
