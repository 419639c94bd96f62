package support

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacerta/rideshare/internal/domain/support"
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

	return NewService(db, log), mock, db
}

func TestOpen(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO support_tickets").
		WithArgs(int64(7), "Lost item", "Left my bag in the car", "open").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	ticket, err := svc.Open(context.Background(), user.Identity{UserID: 7, Role: user.RoleRider}, "Lost item", "Left my bag in the car")
	require.NoError(t, err)
	assert.Equal(t, support.StatusOpen, ticket.Status)
	assert.Equal(t, int64(7), ticket.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_EmptyFieldsRejected(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	_, err := svc.Open(context.Background(), user.Identity{UserID: 7, Role: user.RoleRider}, "", "help")
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMine_HandlesUnansweredTickets(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	now := time.Now()
	cols := []string{"id", "user_id", "subject", "message", "status", "response", "responded_at", "created_at"}
	mock.ExpectQuery("FROM support_tickets").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), int64(7), "Refund", "Trip was cancelled", "answered", "Refund issued", now, now).
			AddRow(int64(1), int64(7), "Lost item", "Left my bag", "open", nil, nil, now))

	tickets, err := svc.ListMine(context.Background(), user.Identity{UserID: 7, Role: user.RoleRider})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "Refund issued", tickets[0].Response)
	assert.Equal(t, support.StatusOpen, tickets[1].Status)
	assert.Empty(t, tickets[1].Response)
	assert.Nil(t, tickets[1].RespondedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespond_MarksAnswered(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	now := time.Now()
	cols := []string{"user_id", "subject", "message", "response", "responded_at", "created_at"}
	mock.ExpectQuery("UPDATE support_tickets").
		WithArgs(int64(1), "Refund issued").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(7), "Refund", "Trip was cancelled", "Refund issued", now, now))

	ticket, err := svc.Respond(context.Background(), user.Identity{UserID: 3, Role: user.RoleDriver}, 1, "Refund issued")
	require.NoError(t, err)
	assert.Equal(t, support.StatusAnswered, ticket.Status)
	assert.Equal(t, "Refund issued", ticket.Response)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespond_UnknownTicket(t *testing.T) {
	svc, mock, db := newTestService(t)
	defer db.Close()

	mock.ExpectQuery("UPDATE support_tickets").
		WithArgs(int64(99), "hello").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Respond(context.Background(), user.Identity{UserID: 3, Role: user.RoleDriver}, 99, "hello")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
