package memory

import (
	"context"
	"sync"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// PaymentRepository is an in-memory implementation of repository.PaymentRepository.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
	order    []string
}

// NewPaymentRepository creates a new in-memory payment repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *payment
	r.payments[payment.ID] = &stored
	r.order = append(r.order, payment.ID)
	return nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

// GetByRide retrieves all payments recorded against a ride.
func (r *PaymentRepository) GetByRide(ctx context.Context, rideID string) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Payment
	for _, id := range r.order {
		if p := r.payments[id]; p.RideID == rideID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetCompletedByRide retrieves the completed payment for a ride, if any.
func (r *PaymentRepository) GetCompletedByRide(ctx context.Context, rideID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		p := r.payments[id]
		if p.RideID == rideID && p.Status == domain.PaymentStatusCompleted {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

// UpdateStatus finalizes a pending payment.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	if status == domain.PaymentStatusFailed {
		payment.FailureReason = reason
	}
	return nil
}

// Ensure interface compliance.
var _ repository.PaymentRepository = (*PaymentRepository)(nil)
