package service

import "errors"

var (
	// ErrInvalidLocation is returned when location coordinates are not finite
	// or out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrUnknownRideType is returned when a ride type ID is not in the catalog.
	ErrUnknownRideType = errors.New("unknown ride type")

	// ErrNoDriverAvailable is returned when no driver can be matched.
	ErrNoDriverAvailable = errors.New("no driver available")

	// ErrDriverNotFound is returned when a driver ID is unknown.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrRideNotFound is returned when a ride ID is unknown.
	ErrRideNotFound = errors.New("ride not found")

	// ErrInvalidTransition is returned for a status change outside the
	// ride state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification is returned when a transition loses a race
	// against another transition on the same ride.
	ErrConcurrentModification = errors.New("ride modified concurrently")

	// ErrRideNotPayable is returned when settling a ride that is not in
	// requested or accepted state.
	ErrRideNotPayable = errors.New("ride not payable in current state")

	// ErrPaymentDeclined is returned when the settlement policy declines a
	// charge. The caller may retry with a different method.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when a driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidPaymentMethod is returned when a payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidPaymentID is returned when a payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrRideNotCompleted is returned when requesting a receipt for a ride
	// that has not completed.
	ErrRideNotCompleted = errors.New("ride not completed")

	// ErrUserExists is returned when registering an already-known email.
	ErrUserExists = errors.New("user already exists")
)
