package rating

import (
	"time"
)

// Rating ties a score and optional comment to a (driver, rider) pair,
// keyed to the reservation it came from. The same pair may be rated more
// than once; aggregation is a read-time concern left to callers.
type Rating struct {
	ID            int64     `json:"id"`
	DriverID      int64     `json:"driver_id"`
	RiderID       int64     `json:"rider_id"`
	ReservationID int64     `json:"reservation_id"`
	Score         float64   `json:"score"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
