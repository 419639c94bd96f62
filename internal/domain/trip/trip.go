package trip

import (
	"time"
)

// Status represents the trip lifecycle state
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Trip represents a scheduled transport offering published by a driver.
// Trips are never deleted; cancellation is a status.
type Trip struct {
	ID             int64     `json:"id"`
	DriverID       int64     `json:"driver_id"`
	DriverName     string    `json:"driver_name,omitempty"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	SeatsTotal     int       `json:"seats_total"`
	SeatsAvailable int       `json:"seats_available"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// SearchFilter holds the optional conjunctive predicates for trip search.
// Empty fields are skipped.
type SearchFilter struct {
	DriverName  string
	Origin      string
	Destination string
	// DateRaw is the unparsed date expression; a time component means an
	// exact-timestamp match, a bare date means a whole-day match.
	DateRaw string
}
