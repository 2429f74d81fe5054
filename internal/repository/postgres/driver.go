package postgres

import (
	"context"
	"database/sql"
	"errors"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `
	id, name, vehicle, license_plate, rating,
	lat, lng, address, is_available, active_ride_id
`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var activeRideID sql.NullString
	if driver.ActiveRideID != "" {
		activeRideID = sql.NullString{String: driver.ActiveRideID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Vehicle,
		driver.LicensePlate,
		driver.Rating,
		driver.Location.Latitude,
		driver.Location.Longitude,
		driver.Location.Address,
		driver.IsAvailable,
		activeRideID,
	)
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriverRow(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return driver, err
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY id ASC`
	return r.queryDrivers(ctx, query)
}

// GetAvailable retrieves all drivers currently flagged available.
func (r *DriverRepository) GetAvailable(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE is_available ORDER BY id ASC`
	return r.queryDrivers(ctx, query)
}

// Bind atomically claims an available driver for a ride. The WHERE clause
// on is_available makes two concurrent claims on the same driver mutually
// exclusive.
func (r *DriverRepository) Bind(ctx context.Context, driverID, rideID string) (bool, error) {
	query := `
		UPDATE drivers
		SET is_available = FALSE, active_ride_id = $2
		WHERE id = $1 AND is_available
	`

	result, err := r.q.ExecContext(ctx, query, driverID, rideID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Release clears a driver's ride binding and marks it available again.
func (r *DriverRepository) Release(ctx context.Context, driverID string) error {
	query := `
		UPDATE drivers
		SET is_available = TRUE, active_ride_id = NULL
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, driverID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateLocation moves a driver to a new position.
func (r *DriverRepository) UpdateLocation(ctx context.Context, driverID string, loc domain.Location) error {
	query := `UPDATE drivers SET lat = $2, lng = $3, address = $4 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, driverID, loc.Latitude, loc.Longitude, loc.Address)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DriverRepository) queryDrivers(ctx context.Context, query string, args ...any) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriverRow(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

func scanDriverRow(s rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var activeRideID sql.NullString

	err := s.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Vehicle,
		&driver.LicensePlate,
		&driver.Rating,
		&driver.Location.Latitude,
		&driver.Location.Longitude,
		&driver.Location.Address,
		&driver.IsAvailable,
		&activeRideID,
	)
	if err != nil {
		return nil, err
	}

	if activeRideID.Valid {
		driver.ActiveRideID = activeRideID.String
	}
	return &driver, nil
}
