package repository

import (
	"context"

	"saferide/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// GetAvailable retrieves all drivers currently flagged available.
	GetAvailable(ctx context.Context) ([]*domain.Driver, error)

	// Bind atomically claims an available driver for a ride, flipping
	// IsAvailable to false. Returns false when the driver is unknown or
	// already bound to another ride.
	Bind(ctx context.Context, driverID, rideID string) (bool, error)

	// Release clears a driver's ride binding and marks it available again.
	Release(ctx context.Context, driverID string) error

	// UpdateLocation moves a driver to a new position.
	UpdateLocation(ctx context.Context, driverID string, loc domain.Location) error
}
