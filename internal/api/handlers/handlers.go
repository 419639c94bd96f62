package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/rideshare/internal/service/auth"
	"github.com/rotacerta/rideshare/internal/service/booking"
	"github.com/rotacerta/rideshare/internal/service/rating"
	"github.com/rotacerta/rideshare/internal/service/support"
	"github.com/rotacerta/rideshare/internal/service/trips"
	apperrors "github.com/rotacerta/rideshare/pkg/errors"
	"github.com/rotacerta/rideshare/pkg/logger"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Auth    *auth.Service
	Trips   *trips.Service
	Booking *booking.Service
	Ratings *rating.Service
	Support *support.Service
	Logger  *logger.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(authSvc *auth.Service, tripsSvc *trips.Service, bookingSvc *booking.Service,
	ratingSvc *rating.Service, supportSvc *support.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		Auth:    authSvc,
		Trips:   tripsSvc,
		Booking: bookingSvc,
		Ratings: ratingSvc,
		Support: supportSvc,
		Logger:  log,
	}
}

// respondError maps service errors onto HTTP responses. Unknown errors
// surface as 500 without leaking internals.
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status == http.StatusInternalServerError {
		h.Logger.Error("Request failed", logger.Err(err))
	}
	c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
}
