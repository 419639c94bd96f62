// Package booking implements the reservation ledger: the rules that keep
// seat counts, reservation status, and trip status mutually consistent
// under cancellation and re-booking.
package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotacerta/rideshare/internal/domain/reservation"
	"github.com/rotacerta/rideshare/internal/domain/user"
	"github.com/rotacerta/rideshare/pkg/database"
	"github.com/rotacerta/rideshare/pkg/dateparse"
	apperrors "github.com/rotacerta/rideshare/pkg/errors"
	"github.com/rotacerta/rideshare/pkg/logger"
	"github.com/rotacerta/rideshare/pkg/monitoring"
)

// Service runs every ledger operation as a single transaction. The trip
// row is locked before any seat arithmetic, so concurrent reservations and
// cancellations on the same trip serialize at the store.
type Service struct {
	db      *sql.DB
	logger  *logger.Logger
	metrics *monitoring.NewRelicApp
}

// NewService creates a new booking service
func NewService(db *sql.DB, log *logger.Logger, metrics *monitoring.NewRelicApp) *Service {
	return &Service{db: db, logger: log, metrics: metrics}
}

// Create reserves one seat on the trip for the acting rider. The
// reservation insert and the seat decrement commit together or not at all.
func (s *Service) Create(ctx context.Context, identity user.Identity, tripID int64) (*reservation.Reservation, error) {
	if !identity.IsRider() {
		return nil, apperrors.ErrRiderOnly
	}

	res := &reservation.Reservation{
		TripID:  tripID,
		RiderID: identity.UserID,
		Status:  reservation.StatusConfirmed,
	}

	var seatsLeft int
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		var seatsAvailable int
		err := tx.QueryRowContext(ctx,
			`SELECT seats_available FROM trips WHERE id = $1 FOR UPDATE`, tripID,
		).Scan(&seatsAvailable)
		if err == sql.ErrNoRows {
			return apperrors.ErrTripNotFound
		}
		if err != nil {
			return apperrors.Internal("Failed to load trip", err)
		}

		if seatsAvailable <= 0 {
			s.metrics.RecordSeatsExhausted(tripID)
			return apperrors.ErrNoSeatsAvailable
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO reservations (trip_id, rider_id, status, status_changed_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, status_changed_at, created_at
		`, tripID, identity.UserID, string(reservation.StatusConfirmed)).
			Scan(&res.ID, &res.StatusChangedAt, &res.CreatedAt)
		if err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE trips SET seats_available = seats_available - 1 WHERE id = $1`, tripID,
		); err != nil {
			return apperrors.Internal("Failed to update seat count", err)
		}

		seatsLeft = seatsAvailable - 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reservation created",
		logger.Int64("reservation_id", res.ID),
		logger.Int64("trip_id", tripID),
		logger.Int64("rider_id", identity.UserID),
		logger.Int("seats_left", seatsLeft),
	)
	s.metrics.RecordReservationCreated(tripID, seatsLeft)

	return res, nil
}

// Cancel cancels the rider's own reservation and gives the seat back to
// the trip. The seat is restored only on the first transition into
// cancelled; re-cancelling is rejected before any mutation.
func (s *Service) Cancel(ctx context.Context, identity user.Identity, reservationID int64) error {
	if !identity.IsRider() {
		return apperrors.ErrRiderOnly
	}

	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		var (
			tripID  int64
			riderID int64
			status  string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT trip_id, rider_id, status FROM reservations WHERE id = $1 FOR UPDATE`, reservationID,
		).Scan(&tripID, &riderID, &status)
		if err == sql.ErrNoRows {
			return apperrors.ErrReservationNotFound
		}
		if err != nil {
			return apperrors.Internal("Failed to load reservation", err)
		}

		if riderID != identity.UserID {
			return apperrors.ErrNotReservationOwner
		}

		// The guard against double cancellation: the status check and the
		// status write share one transaction, so two concurrent cancels
		// cannot both restore the seat.
		if reservation.Status(status) == reservation.StatusCancelled {
			return apperrors.ErrReservationCancelled
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE reservations SET status = $2, status_changed_at = NOW() WHERE id = $1
		`, reservationID, string(reservation.StatusCancelled)); err != nil {
			return apperrors.Internal("Failed to cancel reservation", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE trips SET seats_available = seats_available + 1
			WHERE id = $1 AND seats_available < seats_total
		`, tripID); err != nil {
			return apperrors.Internal("Failed to restore seat", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Reservation cancelled",
		logger.Int64("reservation_id", reservationID),
		logger.Int64("rider_id", identity.UserID),
	)
	s.metrics.RecordReservationCancelled(reservationID, false)

	return nil
}

// SetStatus lets the driver of the trip force a reservation into confirmed
// or cancelled. Unlike the rider path this used to leave the seat ledger
// untouched; here both directions keep it consistent: forcing cancelled
// releases the seat exactly once, forcing confirmed on a cancelled
// reservation takes a seat back and fails when none remain.
func (s *Service) SetStatus(ctx context.Context, identity user.Identity, reservationID int64, target reservation.Status) error {
	if !identity.IsDriver() {
		return apperrors.ErrDriverOnly
	}

	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		var (
			tripID         int64
			driverID       int64
			status         string
			seatsAvailable int
		)
		err := tx.QueryRowContext(ctx, `
			SELECT r.trip_id, r.status, t.driver_id, t.seats_available
			FROM reservations r
			JOIN trips t ON t.id = r.trip_id
			WHERE r.id = $1
			FOR UPDATE
		`, reservationID).Scan(&tripID, &status, &driverID, &seatsAvailable)
		if err == sql.ErrNoRows {
			return apperrors.ErrReservationNotFound
		}
		if err != nil {
			return apperrors.Internal("Failed to load reservation", err)
		}

		if driverID != identity.UserID {
			return apperrors.ErrNotTripOwner
		}

		if !target.IsValid() {
			return apperrors.ErrInvalidReservationStatus
		}

		current := reservation.Status(status)
		if current == target {
			// Nothing to transition; the ledger stays untouched.
			return nil
		}

		if target == reservation.StatusConfirmed && seatsAvailable <= 0 {
			s.metrics.RecordSeatsExhausted(tripID)
			return apperrors.ErrNoSeatsAvailable
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE reservations SET status = $2, status_changed_at = NOW() WHERE id = $1
		`, reservationID, string(target)); err != nil {
			return apperrors.Internal("Failed to update reservation", err)
		}

		if target == reservation.StatusCancelled {
			_, err = tx.ExecContext(ctx, `
				UPDATE trips SET seats_available = seats_available + 1
				WHERE id = $1 AND seats_available < seats_total
			`, tripID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE trips SET seats_available = seats_available - 1 WHERE id = $1`, tripID)
		}
		if err != nil {
			return apperrors.Internal("Failed to update seat count", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Reservation status forced by driver",
		logger.Int64("reservation_id", reservationID),
		logger.Int64("driver_id", identity.UserID),
		logger.String("status", string(target)),
	)
	if target == reservation.StatusCancelled {
		s.metrics.RecordReservationCancelled(reservationID, true)
	}

	return nil
}

// ListMine returns the acting rider's reservations joined with their trips.
func (s *Service) ListMine(ctx context.Context, identity user.Identity) ([]reservation.WithTrip, error) {
	if !identity.IsRider() {
		return nil, apperrors.ErrRiderOnly
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, t.id, t.origin, t.destination, t.departure_time, r.status, t.status
		FROM reservations r
		JOIN trips t ON t.id = r.trip_id
		WHERE r.rider_id = $1
		ORDER BY t.departure_time
	`, identity.UserID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list reservations", err)
	}
	defer rows.Close()

	out := make([]reservation.WithTrip, 0)
	for rows.Next() {
		var (
			item      reservation.WithTrip
			status    string
			departure time.Time
		)
		if err := rows.Scan(&item.ReservationID, &item.TripID, &item.Origin, &item.Destination,
			&departure, &status, &item.TripStatus); err != nil {
			return nil, apperrors.Internal("Failed to scan reservation", err)
		}
		item.Status = reservation.Status(status)
		item.DepartureTime = departure
		item.Departure = dateparse.Format(departure)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Failed to list reservations", err)
	}
	return out, nil
}
