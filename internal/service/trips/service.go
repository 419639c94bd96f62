// Package trips handles trip publication, search, and lifecycle changes.
package trips

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rotacerta/rideshare/internal/domain/trip"
	"github.com/rotacerta/rideshare/internal/domain/user"
	"github.com/rotacerta/rideshare/pkg/cache"
	"github.com/rotacerta/rideshare/pkg/database"
	"github.com/rotacerta/rideshare/pkg/dateparse"
	apperrors "github.com/rotacerta/rideshare/pkg/errors"
	"github.com/rotacerta/rideshare/pkg/logger"
	"github.com/rotacerta/rideshare/pkg/monitoring"
)

const searchVersionKey = "trips:search:ver"

// Service handles trip operations
type Service struct {
	db       *sql.DB
	redis    *redis.Client
	logger   *logger.Logger
	metrics  *monitoring.NewRelicApp
	cacheTTL time.Duration
}

// NewService creates a new trips service. The Redis client is optional;
// without it search results are simply not cached.
func NewService(db *sql.DB, redisClient *redis.Client, log *logger.Logger, metrics *monitoring.NewRelicApp, cacheTTL time.Duration) *Service {
	return &Service{
		db:       db,
		redis:    redisClient,
		logger:   log,
		metrics:  metrics,
		cacheTTL: cacheTTL,
	}
}

// Create publishes a new trip for the acting driver. The departure string
// accepts every format dateparse supports.
func (s *Service) Create(ctx context.Context, identity user.Identity, origin, destination, departureRaw string, seats int) (*trip.Trip, error) {
	if !identity.IsDriver() {
		return nil, apperrors.ErrDriverOnly
	}
	if origin == "" || destination == "" {
		return nil, apperrors.BadRequest("Origin and destination are required", nil)
	}
	if seats < 1 {
		return nil, apperrors.BadRequest("A trip needs at least one seat", nil)
	}

	departure, err := dateparse.Parse(departureRaw)
	if err != nil {
		return nil, err
	}

	t := &trip.Trip{
		DriverID:       identity.UserID,
		Origin:         origin,
		Destination:    destination,
		DepartureTime:  departure,
		SeatsTotal:     seats,
		SeatsAvailable: seats,
		Status:         trip.StatusScheduled,
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO trips (driver_id, origin, destination, departure_time, seats_total, seats_available, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, t.DriverID, t.Origin, t.Destination, t.DepartureTime, t.SeatsTotal, t.SeatsAvailable, string(t.Status)).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, apperrors.Internal("Failed to create trip", err)
	}

	s.invalidateSearchCache(ctx)
	s.logger.Info("Trip created",
		logger.Int64("trip_id", t.ID),
		logger.Int64("driver_id", t.DriverID),
		logger.String("origin", t.Origin),
		logger.String("destination", t.Destination),
		logger.Int("seats", seats),
	)
	s.metrics.RecordTripCreated(t.Origin, t.Destination, seats)

	return t, nil
}

// Search composes the optional filters into one conjunctive query over
// trips joined with their drivers. A date expression carrying a clock
// matches the exact timestamp; a bare date matches the whole calendar day.
// An empty result is not an error.
func (s *Service) Search(ctx context.Context, filter trip.SearchFilter) ([]trip.Trip, error) {
	cacheKey, cached := s.searchCacheLookup(ctx, filter)
	if cached != nil {
		return cached, nil
	}

	query := `
		SELECT t.id, t.driver_id, u.name, t.origin, t.destination, t.departure_time,
		       t.seats_total, t.seats_available, t.status, t.created_at
		FROM trips t
		JOIN users u ON u.id = t.driver_id
		WHERE 1=1`
	args := []interface{}{}

	addLike := func(column, value string) {
		args = append(args, "%"+value+"%")
		query += fmt.Sprintf(" AND %s ILIKE $%d", column, len(args))
	}

	if filter.DriverName != "" {
		addLike("u.name", filter.DriverName)
	}
	if filter.Origin != "" {
		addLike("t.origin", filter.Origin)
	}
	if filter.Destination != "" {
		addLike("t.destination", filter.Destination)
	}

	if filter.DateRaw != "" {
		parsed, err := dateparse.Parse(filter.DateRaw)
		if err != nil {
			return nil, err
		}
		if dateparse.HasClock(filter.DateRaw) {
			args = append(args, parsed)
			query += fmt.Sprintf(" AND t.departure_time = $%d", len(args))
		} else {
			start, end := dateparse.DayWindow(parsed)
			args = append(args, start, end)
			query += fmt.Sprintf(" AND t.departure_time >= $%d AND t.departure_time < $%d", len(args)-1, len(args))
		}
	}

	query += " ORDER BY t.departure_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Internal("Failed to search trips", err)
	}
	defer rows.Close()

	results := make([]trip.Trip, 0)
	for rows.Next() {
		var (
			t      trip.Trip
			status string
		)
		if err := rows.Scan(&t.ID, &t.DriverID, &t.DriverName, &t.Origin, &t.Destination,
			&t.DepartureTime, &t.SeatsTotal, &t.SeatsAvailable, &status, &t.CreatedAt); err != nil {
			return nil, apperrors.Internal("Failed to scan trip", err)
		}
		t.Status = trip.Status(status)
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Failed to search trips", err)
	}

	s.searchCacheStore(ctx, cacheKey, results)
	return results, nil
}

// SetStatus changes a trip's lifecycle status. Cancelling a trip also
// cancels its outstanding confirmed reservations and restores their seats
// in the same transaction, so the seat ledger stays consistent.
func (s *Service) SetStatus(ctx context.Context, identity user.Identity, tripID int64, target trip.Status) error {
	if !identity.IsDriver() {
		return apperrors.ErrDriverOnly
	}

	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		var (
			driverID int64
			current  string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT driver_id, status FROM trips WHERE id = $1 FOR UPDATE`, tripID,
		).Scan(&driverID, &current)
		if err == sql.ErrNoRows {
			return apperrors.ErrTripNotFound
		}
		if err != nil {
			return apperrors.Internal("Failed to load trip", err)
		}

		if driverID != identity.UserID {
			return apperrors.ErrNotTripOwner
		}

		if !target.IsValid() {
			return apperrors.ErrInvalidTripStatus
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE trips SET status = $2 WHERE id = $1`, tripID, string(target),
		); err != nil {
			return apperrors.Internal("Failed to update trip", err)
		}

		if target != trip.StatusCancelled || trip.Status(current) == trip.StatusCancelled {
			return nil
		}

		// Cascade: outstanding confirmed reservations are cancelled and
		// their seats restored.
		res, err := tx.ExecContext(ctx, `
			UPDATE reservations SET status = 'cancelled', status_changed_at = NOW()
			WHERE trip_id = $1 AND status = 'confirmed'
		`, tripID)
		if err != nil {
			return apperrors.Internal("Failed to cancel reservations", err)
		}
		cancelled, err := res.RowsAffected()
		if err != nil {
			return apperrors.Internal("Failed to cancel reservations", err)
		}
		if cancelled > 0 {
			if _, err := tx.ExecContext(ctx, `
				UPDATE trips SET seats_available = LEAST(seats_total, seats_available + $2) WHERE id = $1
			`, tripID, cancelled); err != nil {
				return apperrors.Internal("Failed to restore seats", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateSearchCache(ctx)
	s.logger.Info("Trip status changed",
		logger.Int64("trip_id", tripID),
		logger.Int64("driver_id", identity.UserID),
		logger.String("status", string(target)),
	)

	return nil
}

// Cache plumbing. Cached entries carry a version in the key; any trip
// write bumps the version, so stale entries just expire.

func (s *Service) searchCacheLookup(ctx context.Context, filter trip.SearchFilter) (string, []trip.Trip) {
	if s.redis == nil {
		return "", nil
	}

	var ver int64
	if raw, err := cache.Get(ctx, s.redis, searchVersionKey); err == nil {
		ver, _ = strconv.ParseInt(raw, 10, 64)
	} else if err != redis.Nil {
		return "", nil
	}

	key := fmt.Sprintf("trips:search:v%d:%s|%s|%s|%s",
		ver, filter.DriverName, filter.Origin, filter.Destination, filter.DateRaw)

	raw, err := cache.Get(ctx, s.redis, key)
	if err != nil {
		s.metrics.RecordSearchCacheHit(false)
		return key, nil
	}

	var results []trip.Trip
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return key, nil
	}
	s.metrics.RecordSearchCacheHit(true)
	return key, results
}

func (s *Service) searchCacheStore(ctx context.Context, key string, results []trip.Trip) {
	if s.redis == nil || key == "" {
		return
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := cache.SetWithExpiry(ctx, s.redis, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache search results", logger.Err(err))
	}
}

func (s *Service) invalidateSearchCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if _, err := cache.Incr(ctx, s.redis, searchVersionKey); err != nil {
		s.logger.Warn("Failed to bump search cache version", logger.Err(err))
	}
}
