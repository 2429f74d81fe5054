package domain

import "time"

// User represents a rider in the system.
type User struct {
	ID        string
	Email     string
	Name      string
	Phone     string
	CreatedAt time.Time
}
