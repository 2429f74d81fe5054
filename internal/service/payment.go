package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"saferide/internal/domain"
	"saferide/internal/repository"
)

// SettlementPolicy decides whether a charge succeeds. Swappable for tests;
// the production default approves every charge (no real gateway exists).
type SettlementPolicy interface {
	Authorize(ctx context.Context, method domain.PaymentMethod, amount float64) error
}

// ApproveAllPolicy authorizes every charge.
type ApproveAllPolicy struct{}

// NewApproveAllPolicy creates the default settlement policy.
func NewApproveAllPolicy() *ApproveAllPolicy {
	return &ApproveAllPolicy{}
}

// Authorize always succeeds.
func (p *ApproveAllPolicy) Authorize(ctx context.Context, method domain.PaymentMethod, amount float64) error {
	return nil
}

// Settlement records payments against rides. It never mutates Ride state;
// advancing the ride after a successful payment is the caller's job.
type Settlement struct {
	paymentRepo repository.PaymentRepository
	policy      SettlementPolicy
	notifier    *NotificationService
}

// NewSettlement creates a new Settlement.
func NewSettlement(paymentRepo repository.PaymentRepository, policy SettlementPolicy, notifier *NotificationService) *Settlement {
	return &Settlement{
		paymentRepo: paymentRepo,
		policy:      policy,
		notifier:    notifier,
	}
}

// Settle charges the ride's fixed price using the given method.
//
// A ride is payable only in requested or accepted state. A completed payment
// is returned as-is on repeat calls, so a ride never accumulates more than
// one non-failed payment. A declined charge is recorded as a failed payment
// and returned together with ErrPaymentDeclined; the caller may retry with a
// different method.
func (s *Settlement) Settle(ctx context.Context, ride *domain.Ride, method domain.PaymentMethod) (*domain.Payment, error) {
	if _, err := ValidatePaymentMethod(string(method)); err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusRequested && ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotPayable
	}

	existing, err := s.paymentRepo.GetCompletedByRide(ctx, ride.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	payment := &domain.Payment{
		ID:        uuid.New().String(),
		RideID:    ride.ID,
		Amount:    ride.Price,
		Status:    domain.PaymentStatusPending,
		Method:    method,
		CreatedAt: time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(ctx, method, payment.Amount); err != nil {
		reason := err.Error()
		if updErr := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed, reason); updErr != nil {
			return nil, updErr
		}
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = reason
		if s.notifier != nil {
			s.notifier.NotifyPaymentFailed(ctx, payment)
		}
		return payment, fmt.Errorf("%w: %s", ErrPaymentDeclined, reason)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted, ""); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusCompleted

	if s.notifier != nil {
		s.notifier.NotifyPaymentCompleted(ctx, payment)
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *Settlement) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// ValidatePaymentMethod validates a payment method string.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodCard, domain.PaymentMethodWallet, domain.PaymentMethodCash:
		return domain.PaymentMethod(method), nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
