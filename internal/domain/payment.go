package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentMethod represents the payment method for a ride.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCash   PaymentMethod = "cash"
)

// Payment represents a settlement attempt against a ride.
// A payment is immutable once completed or failed.
type Payment struct {
	ID            string
	RideID        string
	Amount        float64
	Status        PaymentStatus
	Method        PaymentMethod
	FailureReason string
	CreatedAt     time.Time
}
