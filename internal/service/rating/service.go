// Package rating records mutual post-trip ratings between drivers and riders.
package rating

import (
	"context"
	"database/sql"

	"github.com/rotacerta/rideshare/internal/domain/rating"
	"github.com/rotacerta/rideshare/internal/domain/user"
	apperrors "github.com/rotacerta/rideshare/pkg/errors"
	"github.com/rotacerta/rideshare/pkg/logger"
)

// Service handles rating operations
type Service struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewService creates a new rating service
func NewService(db *sql.DB, log *logger.Logger) *Service {
	return &Service{db: db, logger: log}
}

// RateDriver records a rider's rating of the driver behind one of their
// reservations. A reservation belonging to someone else reads as not found.
func (s *Service) RateDriver(ctx context.Context, identity user.Identity, reservationID int64, score float64, comment string) (*rating.Rating, error) {
	if !identity.IsRider() {
		return nil, apperrors.ErrRiderOnly
	}

	var (
		riderID  int64
		driverID int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT r.rider_id, t.driver_id
		FROM reservations r
		JOIN trips t ON t.id = r.trip_id
		WHERE r.id = $1
	`, reservationID).Scan(&riderID, &driverID)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrReservationNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to load reservation", err)
	}
	if riderID != identity.UserID {
		return nil, apperrors.ErrReservationNotFound
	}

	r := &rating.Rating{
		DriverID:      driverID,
		RiderID:       identity.UserID,
		ReservationID: reservationID,
		Score:         score,
		Comment:       comment,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO driver_ratings (driver_id, rider_id, reservation_id, score, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.DriverID, r.RiderID, r.ReservationID, r.Score, r.Comment).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, apperrors.Internal("Failed to save rating", err)
	}

	s.logger.Info("Driver rated",
		logger.Int64("reservation_id", reservationID),
		logger.Int64("driver_id", driverID),
		logger.Float64("score", score),
	)

	return r, nil
}

// RateRider records a driver's rating of the rider behind a reservation on
// one of the driver's own trips.
func (s *Service) RateRider(ctx context.Context, identity user.Identity, reservationID int64, score float64, comment string) (*rating.Rating, error) {
	if !identity.IsDriver() {
		return nil, apperrors.ErrDriverOnly
	}

	var (
		riderID  int64
		driverID int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT r.rider_id, t.driver_id
		FROM reservations r
		JOIN trips t ON t.id = r.trip_id
		WHERE r.id = $1
	`, reservationID).Scan(&riderID, &driverID)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrReservationNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to load reservation", err)
	}
	if driverID != identity.UserID {
		return nil, apperrors.ErrReservationNotFound
	}

	r := &rating.Rating{
		DriverID:      identity.UserID,
		RiderID:       riderID,
		ReservationID: reservationID,
		Score:         score,
		Comment:       comment,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO rider_ratings (driver_id, rider_id, reservation_id, score, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.DriverID, r.RiderID, r.ReservationID, r.Score, r.Comment).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, apperrors.Internal("Failed to save rating", err)
	}

	s.logger.Info("Rider rated",
		logger.Int64("reservation_id", reservationID),
		logger.Int64("rider_id", riderID),
		logger.Float64("score", score),
	)

	return r, nil
}
