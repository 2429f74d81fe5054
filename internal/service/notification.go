package service

import (
	"context"
	"log"

	"saferide/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationDriverAssigned  NotificationType = "DRIVER_ASSIGNED"
	NotificationStatusChanged   NotificationType = "RIDE_STATUS_CHANGED"
	NotificationPaymentReceived NotificationType = "PAYMENT_RECEIVED"
	NotificationPaymentFailed   NotificationType = "PAYMENT_FAILED"
)

// NotificationService delivers ride events to riders and drivers.
// The demo implementation logs; a real deployment would push over a
// websocket or mobile channel.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyDriverAssigned notifies the rider that a driver was matched.
func (s *NotificationService) NotifyDriverAssigned(ctx context.Context, ride *domain.Ride, driver *domain.Driver) {
	log.Printf("[notify] %s ride=%s user=%s driver=%s vehicle=%q",
		NotificationDriverAssigned, ride.ID, ride.UserID, driver.ID, driver.Vehicle)
}

// NotifyStatusChanged notifies both parties about a status transition.
func (s *NotificationService) NotifyStatusChanged(ctx context.Context, ride *domain.Ride, from domain.RideStatus) {
	log.Printf("[notify] %s ride=%s %s -> %s",
		NotificationStatusChanged, ride.ID, from, ride.Status)
}

// NotifyPaymentCompleted notifies the rider that a payment went through.
func (s *NotificationService) NotifyPaymentCompleted(ctx context.Context, payment *domain.Payment) {
	log.Printf("[notify] %s ride=%s payment=%s amount=%.2f method=%s",
		NotificationPaymentReceived, payment.RideID, payment.ID, payment.Amount, payment.Method)
}

// NotifyPaymentFailed notifies the rider that a payment was declined.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) {
	log.Printf("[notify] %s ride=%s payment=%s reason=%q",
		NotificationPaymentFailed, payment.RideID, payment.ID, payment.FailureReason)
}
