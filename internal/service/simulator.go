package service

import (
	"context"
	"time"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

const (
	defaultSimInterval = 2 * time.Second

	// simStepFraction is how much of the remaining leg a driver covers per
	// tick. snapDistanceKm avoids asymptotic crawling near the target.
	simStepFraction = 0.2
	snapDistanceKm  = 0.05
)

// DriverMover is the subset of the matcher the simulator needs.
type DriverMover interface {
	Track(ctx context.Context, driverID string) (*domain.Driver, error)
	UpdateLocation(ctx context.Context, driverID string, loc domain.Location) error
}

// ProgressSimulator is a best-effort background updater that nudges assigned
// drivers toward their current target: the pickup while a ride is accepted,
// the dropoff once it is in progress. It only moves drivers; it never writes
// Ride state, so cancelling it at any point leaves all records correct.
type ProgressSimulator struct {
	rideRepo repository.RideRepository
	mover    DriverMover
	interval time.Duration
}

// NewProgressSimulator creates a simulator. A non-positive interval falls
// back to the default.
func NewProgressSimulator(rideRepo repository.RideRepository, mover DriverMover, interval time.Duration) *ProgressSimulator {
	if interval <= 0 {
		interval = defaultSimInterval
	}
	return &ProgressSimulator{
		rideRepo: rideRepo,
		mover:    mover,
		interval: interval,
	}
}

// Run advances driver positions until the context is cancelled.
func (s *ProgressSimulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick moves every driver bound to an active ride one step toward its
// target. Errors on individual rides are skipped; the next tick retries.
func (s *ProgressSimulator) Tick(ctx context.Context) {
	rides, err := s.rideRepo.GetActive(ctx)
	if err != nil {
		return
	}

	for _, ride := range rides {
		if ride.DriverID == "" {
			continue
		}

		driver, err := s.mover.Track(ctx, ride.DriverID)
		if err != nil {
			continue
		}

		target := ride.Pickup
		if ride.Status == domain.RideStatusInProgress {
			target = ride.Dropoff
		}

		next := stepToward(driver.Location, target)
		if next.Equal(driver.Location) {
			continue
		}
		_ = s.mover.UpdateLocation(ctx, ride.DriverID, next)
	}
}

// stepToward returns the next simulated position between from and target.
func stepToward(from, target domain.Location) domain.Location {
	if haversineKm(from, target) <= snapDistanceKm {
		return domain.Location{
			Latitude:  target.Latitude,
			Longitude: target.Longitude,
			Address:   from.Address,
		}
	}

	return domain.Location{
		Latitude:  from.Latitude + (target.Latitude-from.Latitude)*simStepFraction,
		Longitude: from.Longitude + (target.Longitude-from.Longitude)*simStepFraction,
		Address:   from.Address,
	}
}
