package trips

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacerta/rideshare/internal/domain/trip"
	"github.com/rotacerta/rideshare/internal/domain/user"
	apperrors "github.com/rotacerta/rideshare/pkg/errors"
	"github.com/rotacerta/rideshare/pkg/logger"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	log, err := logger.New(logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	return NewService(db, nil, log, nil, time.Minute), mock, db
}

func driver(id int64) user.Identity {
	return user.Identity{UserID: id, Role: user.RoleDriver}
}

func rider(id int64) user.Identity {
	return user.Identity{UserID: id, Role: user.RoleRider}
}

func tripRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "driver_id", "driver_name", "origin", "destination",
		"departure_time", "seats_total", "seats_available", "status", "created_at",
	})
}

func TestCreate_ParsesFlexibleDeparture(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO trips").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	got, err := svc.Create(context.Background(), driver(2), "Campinas", "Sao Paulo", "18/08/2025 20:30", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, time.Date(2025, 8, 18, 20, 30, 0, 0, time.UTC), got.DepartureTime)
	assert.Equal(t, 3, got.SeatsTotal)
	assert.Equal(t, 3, got.SeatsAvailable)
	assert.Equal(t, trip.StatusScheduled, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectsRiderAndBadInput(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	_, err := svc.Create(context.Background(), rider(7), "A", "B", "18/08/2025 20:30", 3)
	assert.ErrorIs(t, err, apperrors.ErrDriverOnly)

	_, err = svc.Create(context.Background(), driver(2), "A", "B", "18/08/2025 20:30", 0)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, 400, appErr.Status)

	_, err = svc.Create(context.Background(), driver(2), "A", "B", "not a date", 3)
	appErr = apperrors.GetAppError(err)
	assert.Equal(t, 400, appErr.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_NoFiltersReturnsAll(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	departure := time.Date(2025, 8, 18, 20, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM trips t").
		WillReturnRows(tripRows().
			AddRow(int64(1), int64(2), "Ana", "Campinas", "Sao Paulo", departure, 3, 2, "scheduled", departure))

	out, err := svc.Search(context.Background(), trip.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ana", out[0].DriverName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_SubstringFilters(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	mock.ExpectQuery("u.name ILIKE").
		WithArgs("%ana%", "%camp%", "%paulo%").
		WillReturnRows(tripRows())

	out, err := svc.Search(context.Background(), trip.SearchFilter{
		DriverName:  "ana",
		Origin:      "camp",
		Destination: "paulo",
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_DateWithClockMatchesExactTimestamp(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	exact := time.Date(2025, 8, 18, 20, 30, 0, 0, time.UTC)
	mock.ExpectQuery("t.departure_time = ").
		WithArgs(exact).
		WillReturnRows(tripRows())

	_, err := svc.Search(context.Background(), trip.SearchFilter{DateRaw: "18/08/2025 20:30"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_BareDateMatchesWholeDay(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	start := time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	mock.ExpectQuery("t.departure_time >= ").
		WithArgs(start, end).
		WillReturnRows(tripRows())

	_, err := svc.Search(context.Background(), trip.SearchFilter{DateRaw: "18/08/2025"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_BadDateRejected(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	_, err := svc.Search(context.Background(), trip.SearchFilter{DateRaw: "soon"})
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_CancelCascadesToReservations(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT driver_id, status FROM trips").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "status"}).AddRow(int64(2), "scheduled"))
	mock.ExpectExec("UPDATE trips SET status").
		WithArgs(int64(10), "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations SET status = 'cancelled'").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("seats_available \\+ \\$2").
		WithArgs(int64(10), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.SetStatus(context.Background(), driver(2), 10, trip.StatusCancelled)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_CompleteSkipsCascade(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT driver_id, status FROM trips").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "status"}).AddRow(int64(2), "scheduled"))
	mock.ExpectExec("UPDATE trips SET status").
		WithArgs(int64(10), "completed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.SetStatus(context.Background(), driver(2), 10, trip.StatusCompleted)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_NotOwner(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT driver_id, status FROM trips").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "status"}).AddRow(int64(99), "scheduled"))
	mock.ExpectRollback()

	err := svc.SetStatus(context.Background(), driver(2), 10, trip.StatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrNotTripOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_UnknownTrip(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT driver_id, status FROM trips").
		WithArgs(int64(44)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := svc.SetStatus(context.Background(), driver(2), 44, trip.StatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
