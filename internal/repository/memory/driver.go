package memory

import (
	"context"
	"sync"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// DriverRepository is an in-memory implementation of repository.DriverRepository.
type DriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
	order   []string
}

// NewDriverRepository creates a new in-memory driver repository.
func NewDriverRepository() *DriverRepository {
	return &DriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *driver
	r.drivers[driver.ID] = &stored
	r.order = append(r.order, driver.ID)
	return nil
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	driver, ok := r.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(r.order))
	for _, id := range r.order {
		copy := *r.drivers[id]
		result = append(result, &copy)
	}
	return result, nil
}

// GetAvailable retrieves all drivers currently flagged available.
func (r *DriverRepository) GetAvailable(ctx context.Context) ([]*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Driver
	for _, id := range r.order {
		if d := r.drivers[id]; d.IsAvailable {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

// Bind atomically claims an available driver for a ride.
func (r *DriverRepository) Bind(ctx context.Context, driverID, rideID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[driverID]
	if !ok || !driver.IsAvailable {
		return false, nil
	}
	driver.IsAvailable = false
	driver.ActiveRideID = rideID
	return true, nil
}

// Release clears a driver's ride binding and marks it available again.
func (r *DriverRepository) Release(ctx context.Context, driverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[driverID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsAvailable = true
	driver.ActiveRideID = ""
	return nil
}

// UpdateLocation moves a driver to a new position.
func (r *DriverRepository) UpdateLocation(ctx context.Context, driverID string, loc domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[driverID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Location = loc
	return nil
}

// Ensure interface compliance.
var _ repository.DriverRepository = (*DriverRepository)(nil)
