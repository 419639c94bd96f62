package dto

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateTripRequest represents a driver publishing a trip
type CreateTripRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Departure   string `json:"departure" binding:"required"`
	Seats       int    `json:"seats" binding:"required,min=1"`
}

// SetTripStatusRequest represents a trip status change
type SetTripStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled cancelled completed"`
}

// CreateReservationRequest represents a rider claiming a seat
type CreateReservationRequest struct {
	TripID int64 `json:"trip_id" binding:"required"`
}

// SetReservationStatusRequest represents a driver forcing a reservation status
type SetReservationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled"`
}

// RateRequest represents a rating in either direction
type RateRequest struct {
	Score   float64 `json:"score" binding:"required"`
	Comment string  `json:"comment"`
}

// OpenTicketRequest represents a new support ticket
type OpenTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// RespondTicketRequest represents an answer to a ticket
type RespondTicketRequest struct {
	Response string `json:"response" binding:"required"`
}
