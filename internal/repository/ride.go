package repository

import (
	"context"

	"saferide/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByUser retrieves all rides for a user, in insertion order.
	GetByUser(ctx context.Context, userID string) ([]*domain.Ride, error)

	// GetAll retrieves all rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// GetActive retrieves rides in accepted or in_progress state.
	GetActive(ctx context.Context) ([]*domain.Ride, error)

	// UpdateStatus commits a status transition with compare-and-set
	// semantics: the update applies only if the stored ride still has the
	// given source status and version. Returns false when the ride was
	// modified concurrently.
	UpdateStatus(ctx context.Context, id string, from, to domain.RideStatus, version int) (bool, error)
}
