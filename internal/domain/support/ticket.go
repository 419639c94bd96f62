package support

import (
	"time"
)

// Status represents the ticket state
type Status string

const (
	StatusOpen     Status = "open"
	StatusAnswered Status = "answered"
)

// Ticket is a support request opened by any authenticated user.
type Ticket struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      Status     `json:"status"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
