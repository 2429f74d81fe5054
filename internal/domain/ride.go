package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested  RideStatus = "requested"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from the status.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// rideTransitions describes the edges of the ride state machine.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusRequested:  {RideStatusAccepted, RideStatusCancelled},
	RideStatusAccepted:   {RideStatusInProgress, RideStatusCancelled},
	RideStatusInProgress: {RideStatusCompleted, RideStatusCancelled},
}

// CanTransition reports whether a ride may move from one status to another.
func CanTransition(from, to RideStatus) bool {
	for _, next := range rideTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Ride represents a single request-to-completion trip record.
// The fare is fixed at creation time and never recomputed.
type Ride struct {
	ID          string
	UserID      string
	DriverID    string // empty until a driver is matched
	Pickup      Location
	Dropoff     Location
	RideType    RideType
	Status      RideStatus
	Price       float64
	DistanceKm  float64
	DurationMin float64
	Version     int // bumped on every committed status transition
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
