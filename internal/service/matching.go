package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"saferide/internal/domain"
	"saferide/internal/redis"
	"saferide/internal/repository"
)

const (
	driverLockTTL = 10 * time.Second

	// matchRadiusKm bounds the geo index query; candidates further out are
	// only considered via the repository fallback scan.
	matchRadiusKm = 50.0
)

// MatcherInterface defines the driver matching contract.
// This interface allows for testing with mock implementations.
type MatcherInterface interface {
	FindAvailable(ctx context.Context, loc domain.Location) ([]*domain.Driver, error)
	Assign(ctx context.Context, rideID string, pickup domain.Location) (*domain.Driver, error)
	Track(ctx context.Context, driverID string) (*domain.Driver, error)
	Release(ctx context.Context, driverID string) error
}

// Matcher selects and binds available drivers to rides.
// The redis stores are optional: when absent, candidate ranking works off
// the driver repository alone and assignment is serialized in-process.
type Matcher struct {
	mu            sync.Mutex // serializes Assign within the process
	driverRepo    repository.DriverRepository
	locationStore redis.LocationStoreInterface
	lockStore     redis.LockStoreInterface
}

// Ensure Matcher implements MatcherInterface.
var _ MatcherInterface = (*Matcher)(nil)

// NewMatcher creates a new Matcher. locationStore and lockStore may be nil.
func NewMatcher(
	driverRepo repository.DriverRepository,
	locationStore redis.LocationStoreInterface,
	lockStore redis.LockStoreInterface,
) *Matcher {
	return &Matcher{
		driverRepo:    driverRepo,
		locationStore: locationStore,
		lockStore:     lockStore,
	}
}

// FindAvailable returns available drivers ordered by ascending distance from
// loc, ties broken by descending rating. An empty result is not an error.
func (m *Matcher) FindAvailable(ctx context.Context, loc domain.Location) ([]*domain.Driver, error) {
	if !loc.Valid() {
		return nil, ErrInvalidLocation
	}

	if drivers := m.findViaGeoIndex(ctx, loc); drivers != nil {
		return drivers, nil
	}

	drivers, err := m.driverRepo.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}

	sortCandidates(loc, drivers)
	return drivers, nil
}

// findViaGeoIndex prefilters candidates through the Redis geo index. A nil
// result means the index is absent, empty or failing and the caller should
// fall back to a full repository scan.
func (m *Matcher) findViaGeoIndex(ctx context.Context, loc domain.Location) []*domain.Driver {
	if m.locationStore == nil {
		return nil
	}

	nearby, err := m.locationStore.FindNearbyDrivers(ctx, loc.Latitude, loc.Longitude, matchRadiusKm)
	if err != nil || len(nearby) == 0 {
		return nil
	}

	var drivers []*domain.Driver
	for _, entry := range nearby {
		driver, err := m.driverRepo.GetByID(ctx, entry.DriverID)
		if err != nil || !driver.IsAvailable {
			continue
		}
		drivers = append(drivers, driver)
	}
	if len(drivers) == 0 {
		return nil
	}

	sortCandidates(loc, drivers)
	return drivers
}

func sortCandidates(loc domain.Location, drivers []*domain.Driver) {
	sort.SliceStable(drivers, func(i, j int) bool {
		di := haversineKm(loc, drivers[i].Location)
		dj := haversineKm(loc, drivers[j].Location)
		if di != dj {
			return di < dj
		}
		return drivers[i].Rating > drivers[j].Rating
	})
}

// Assign binds the best-ranked available driver to the ride. It fails with
// ErrNoDriverAvailable when the candidate set is empty; two concurrent calls
// never bind the same driver to two rides.
func (m *Matcher) Assign(ctx context.Context, rideID string, pickup domain.Location) (*domain.Driver, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	candidates, err := m.FindAvailable(ctx, pickup)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		// Guard against another process racing on the same driver.
		if m.lockStore != nil {
			locked, err := m.lockStore.AcquireDriverLock(ctx, candidate.ID, driverLockTTL)
			if err != nil {
				return nil, err
			}
			if !locked {
				continue
			}
		}

		bound, err := m.driverRepo.Bind(ctx, candidate.ID, rideID)
		if err != nil {
			m.releaseLock(ctx, candidate.ID)
			return nil, err
		}
		if !bound {
			// Claimed by a concurrent assignment since the availability
			// query; move on to the next candidate.
			m.releaseLock(ctx, candidate.ID)
			continue
		}

		if m.locationStore != nil {
			_ = m.locationStore.RemoveLocation(ctx, candidate.ID)
		}
		m.releaseLock(ctx, candidate.ID)

		assigned := *candidate
		assigned.IsAvailable = false
		assigned.ActiveRideID = rideID
		return &assigned, nil
	}

	return nil, ErrNoDriverAvailable
}

// Track returns the driver's current position.
func (m *Matcher) Track(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := m.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

// Release marks a driver available again after its ride reached a terminal
// state.
func (m *Matcher) Release(ctx context.Context, driverID string) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	if err := m.driverRepo.Release(ctx, driverID); err != nil {
		if err == repository.ErrNotFound {
			return ErrDriverNotFound
		}
		return err
	}

	if m.locationStore != nil {
		driver, err := m.driverRepo.GetByID(ctx, driverID)
		if err == nil {
			_ = m.locationStore.UpdateLocation(ctx, driverID, driver.Location.Latitude, driver.Location.Longitude)
		}
	}
	return nil
}

// UpdateLocation moves a driver and refreshes the geo index when present.
func (m *Matcher) UpdateLocation(ctx context.Context, driverID string, loc domain.Location) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if !loc.Valid() {
		return ErrInvalidLocation
	}

	if err := m.driverRepo.UpdateLocation(ctx, driverID, loc); err != nil {
		if err == repository.ErrNotFound {
			return ErrDriverNotFound
		}
		return err
	}

	if m.locationStore != nil {
		_ = m.locationStore.UpdateLocation(ctx, driverID, loc.Latitude, loc.Longitude)
	}
	return nil
}

func (m *Matcher) releaseLock(ctx context.Context, driverID string) {
	if m.lockStore != nil {
		_ = m.lockStore.ReleaseDriverLock(ctx, driverID)
	}
}
