package postgres

import (
	"context"
	"database/sql"
	"errors"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
// The ride type is denormalized into the rides row because the fare and its
// inputs are fixed at creation time.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `
	id, user_id, driver_id,
	pickup_lat, pickup_lng, pickup_address,
	dropoff_lat, dropoff_lng, dropoff_address,
	ride_type_id, ride_type_name, ride_type_description, base_price, price_per_km, icon,
	status, price, distance_km, duration_min, version, created_at, updated_at
`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	var driverID sql.NullString
	if ride.DriverID != "" {
		driverID = sql.NullString{String: ride.DriverID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.UserID,
		driverID,
		ride.Pickup.Latitude,
		ride.Pickup.Longitude,
		ride.Pickup.Address,
		ride.Dropoff.Latitude,
		ride.Dropoff.Longitude,
		ride.Dropoff.Address,
		ride.RideType.ID,
		ride.RideType.Name,
		ride.RideType.Description,
		ride.RideType.BasePrice,
		ride.RideType.PricePerKm,
		ride.RideType.Icon,
		ride.Status,
		ride.Price,
		ride.DistanceKm,
		ride.DurationMin,
		ride.Version,
		ride.CreatedAt,
		ride.UpdatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return scanRide(r.q.QueryRowContext(ctx, query, id))
}

// GetByUser retrieves all rides for a user, oldest first.
func (r *RideRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE user_id = $1 ORDER BY created_at ASC`
	return r.queryRides(ctx, query, userID)
}

// GetAll retrieves all rides, oldest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at ASC`
	return r.queryRides(ctx, query)
}

// GetActive retrieves rides in accepted or in_progress state.
func (r *RideRepository) GetActive(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status IN ('accepted', 'in_progress') ORDER BY created_at ASC`
	return r.queryRides(ctx, query)
}

// UpdateStatus commits a status transition with compare-and-set semantics.
func (r *RideRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RideStatus, version int) (bool, error) {
	query := `
		UPDATE rides
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND version = $4
	`

	result, err := r.q.ExecContext(ctx, query, to, id, from, version)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		// Distinguish a lost race from an unknown ride.
		var exists bool
		err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, repository.ErrNotFound
		}
		return false, nil
	}

	return true, nil
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRideRow(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row *sql.Row) (*domain.Ride, error) {
	ride, err := scanRideRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return ride, err
}

func scanRideRow(s rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID sql.NullString

	err := s.Scan(
		&ride.ID,
		&ride.UserID,
		&driverID,
		&ride.Pickup.Latitude,
		&ride.Pickup.Longitude,
		&ride.Pickup.Address,
		&ride.Dropoff.Latitude,
		&ride.Dropoff.Longitude,
		&ride.Dropoff.Address,
		&ride.RideType.ID,
		&ride.RideType.Name,
		&ride.RideType.Description,
		&ride.RideType.BasePrice,
		&ride.RideType.PricePerKm,
		&ride.RideType.Icon,
		&ride.Status,
		&ride.Price,
		&ride.DistanceKm,
		&ride.DurationMin,
		&ride.Version,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	return &ride, nil
}
