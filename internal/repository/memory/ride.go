package memory

import (
	"context"
	"sync"
	"time"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// RideRepository is an in-memory implementation of repository.RideRepository.
// It is the default backend for the demo deployment and for tests.
type RideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride
	order []string // insertion order for history queries
}

// NewRideRepository creates a new in-memory ride repository.
func NewRideRepository() *RideRepository {
	return &RideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *ride
	r.rides[ride.ID] = &stored
	r.order = append(r.order, ride.ID)
	return nil
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ride, ok := r.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

// GetByUser retrieves all rides for a user, in insertion order.
func (r *RideRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Ride
	for _, id := range r.order {
		if ride := r.rides[id]; ride.UserID == userID {
			copy := *ride
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetAll retrieves all rides in insertion order.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(r.order))
	for _, id := range r.order {
		copy := *r.rides[id]
		result = append(result, &copy)
	}
	return result, nil
}

// GetActive retrieves rides in accepted or in_progress state.
func (r *RideRepository) GetActive(ctx context.Context) ([]*domain.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Ride
	for _, id := range r.order {
		ride := r.rides[id]
		if ride.Status == domain.RideStatusAccepted || ride.Status == domain.RideStatusInProgress {
			copy := *ride
			result = append(result, &copy)
		}
	}
	return result, nil
}

// UpdateStatus commits a status transition with compare-and-set semantics.
func (r *RideRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RideStatus, version int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if ride.Status != from || ride.Version != version {
		return false, nil
	}
	ride.Status = to
	ride.Version++
	ride.UpdatedAt = time.Now()
	return true, nil
}

// Ensure interface compliance.
var _ repository.RideRepository = (*RideRepository)(nil)
