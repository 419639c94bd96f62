package reservation

import (
	"time"
)

// Status represents the reservation state
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Reservation is a rider's claim on one seat of a trip. Reservations are
// never deleted; a cancelled reservation stays on record.
type Reservation struct {
	ID       int64  `json:"id"`
	TripID   int64  `json:"trip_id"`
	RiderID  int64  `json:"rider_id"`
	Status   Status `json:"status"`
	// StatusChangedAt is set at creation and on every later transition,
	// so for cancelled reservations it records the cancellation time.
	StatusChangedAt time.Time `json:"status_changed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// WithTrip is a reservation joined with its trip, for rider-facing listings.
type WithTrip struct {
	ReservationID int64     `json:"reservation_id"`
	TripID        int64     `json:"trip_id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"-"`
	Departure     string    `json:"departure"`
	Status        Status    `json:"reservation_status"`
	TripStatus    string    `json:"trip_status"`
}
