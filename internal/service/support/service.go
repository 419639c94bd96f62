// Package support handles help tickets opened by users.
package support

import (
	"context"
	"database/sql"

	"github.com/rotacerta/rideshare/internal/domain/support"
	"github.com/rotacerta/rideshare/internal/domain/user"
	apperrors "github.com/rotacerta/rideshare/pkg/errors"
	"github.com/rotacerta/rideshare/pkg/logger"
)

// Service handles support ticket operations
type Service struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewService creates a new support service
func NewService(db *sql.DB, log *logger.Logger) *Service {
	return &Service{db: db, logger: log}
}

// Open files a new ticket for the acting user.
func (s *Service) Open(ctx context.Context, identity user.Identity, subject, message string) (*support.Ticket, error) {
	if subject == "" || message == "" {
		return nil, apperrors.BadRequest("Subject and message are required", nil)
	}

	t := &support.Ticket{
		UserID:  identity.UserID,
		Subject: subject,
		Message: message,
		Status:  support.StatusOpen,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO support_tickets (user_id, subject, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.UserID, t.Subject, t.Message, string(t.Status)).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, apperrors.Internal("Failed to open ticket", err)
	}

	s.logger.Info("Support ticket opened",
		logger.Int64("ticket_id", t.ID),
		logger.Int64("user_id", t.UserID),
	)

	return t, nil
}

// ListMine returns the acting user's tickets, newest first.
func (s *Service) ListMine(ctx context.Context, identity user.Identity) ([]support.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, subject, message, status, response, responded_at, created_at
		FROM support_tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, identity.UserID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list tickets", err)
	}
	defer rows.Close()

	tickets := make([]support.Ticket, 0)
	for rows.Next() {
		var (
			t        support.Ticket
			status   string
			response sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Message, &status,
			&response, &t.RespondedAt, &t.CreatedAt); err != nil {
			return nil, apperrors.Internal("Failed to scan ticket", err)
		}
		t.Status = support.Status(status)
		t.Response = response.String
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Failed to list tickets", err)
	}

	return tickets, nil
}

// Respond records an answer on a ticket and marks it answered. Any
// authenticated user may answer; there is no staff role.
func (s *Service) Respond(ctx context.Context, identity user.Identity, ticketID int64, response string) (*support.Ticket, error) {
	if response == "" {
		return nil, apperrors.BadRequest("Response is required", nil)
	}

	t := &support.Ticket{ID: ticketID, Status: support.StatusAnswered}
	err := s.db.QueryRowContext(ctx, `
		UPDATE support_tickets
		SET response = $2, responded_at = NOW(), status = 'answered'
		WHERE id = $1
		RETURNING user_id, subject, message, response, responded_at, created_at
	`, ticketID, response).Scan(&t.UserID, &t.Subject, &t.Message, &t.Response, &t.RespondedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTicketNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to respond to ticket", err)
	}

	s.logger.Info("Support ticket answered",
		logger.Int64("ticket_id", ticketID),
		logger.Int64("responder_id", identity.UserID),
	)

	return t, nil
}
