package repository

import (
	"context"

	"saferide/internal/domain"
)

// RideTypeRepository defines read access to the service tier catalog.
// The catalog is loaded once at session start and read-only afterwards.
type RideTypeRepository interface {
	// GetByID retrieves a ride type by ID.
	GetByID(ctx context.Context, id string) (*domain.RideType, error)

	// GetAll retrieves the full catalog.
	GetAll(ctx context.Context) ([]*domain.RideType, error)
}
