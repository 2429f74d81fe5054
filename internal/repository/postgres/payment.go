package postgres

import (
	"context"
	"database/sql"
	"errors"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, ride_id, amount, status, method, failure_reason, created_at`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.RideID,
		payment.Amount,
		payment.Status,
		payment.Method,
		payment.FailureReason,
		payment.CreatedAt,
	)
	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPaymentRow(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return payment, err
}

// GetByRide retrieves all payments recorded against a ride, oldest first.
func (r *PaymentRepository) GetByRide(ctx context.Context, rideID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ride_id = $1 ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// GetCompletedByRide retrieves the completed payment for a ride, if any.
func (r *PaymentRepository) GetCompletedByRide(ctx context.Context, rideID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ride_id = $1 AND status = 'completed' LIMIT 1`

	payment, err := scanPaymentRow(r.q.QueryRowContext(ctx, query, rideID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return payment, err
}

// UpdateStatus finalizes a pending payment.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, reason string) error {
	query := `UPDATE payments SET status = $2, failure_reason = $3 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, status, reason)
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

func scanPaymentRow(s rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	err := s.Scan(
		&payment.ID,
		&payment.RideID,
		&payment.Amount,
		&payment.Status,
		&payment.Method,
		&payment.FailureReason,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
