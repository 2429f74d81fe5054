package repository

import (
	"context"

	"saferide/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByRide retrieves all payments recorded against a ride, in
	// insertion order.
	GetByRide(ctx context.Context, rideID string) ([]*domain.Payment, error)

	// GetCompletedByRide retrieves the completed payment for a ride.
	// Returns nil without error when no completed payment exists.
	GetCompletedByRide(ctx context.Context, rideID string) (*domain.Payment, error)

	// UpdateStatus finalizes a pending payment. The reason is recorded
	// only for failed payments.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, reason string) error
}
