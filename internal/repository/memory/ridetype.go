package memory

import (
	"context"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// RideTypeRepository serves the static service tier catalog from memory.
type RideTypeRepository struct {
	byID  map[string]*domain.RideType
	order []*domain.RideType
}

// NewRideTypeRepository creates a catalog repository over the given types.
func NewRideTypeRepository(types []*domain.RideType) *RideTypeRepository {
	r := &RideTypeRepository{byID: make(map[string]*domain.RideType, len(types))}
	for _, rt := range types {
		stored := *rt
		r.byID[rt.ID] = &stored
		r.order = append(r.order, &stored)
	}
	return r
}

// GetByID retrieves a ride type by ID.
func (r *RideTypeRepository) GetByID(ctx context.Context, id string) (*domain.RideType, error) {
	rt, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rt
	return &copy, nil
}

// GetAll retrieves the full catalog.
func (r *RideTypeRepository) GetAll(ctx context.Context) ([]*domain.RideType, error) {
	result := make([]*domain.RideType, 0, len(r.order))
	for _, rt := range r.order {
		copy := *rt
		result = append(result, &copy)
	}
	return result, nil
}

// Ensure interface compliance.
var _ repository.RideTypeRepository = (*RideTypeRepository)(nil)
