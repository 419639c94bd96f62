package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/rideshare/internal/api/dto"
	"github.com/rotacerta/rideshare/internal/api/middleware"
	"github.com/rotacerta/rideshare/internal/domain/reservation"
)

// CreateReservation handles POST /v1/reservations
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	r, err := h.Booking.Create(c.Request.Context(), identity, req.TripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

// CancelReservation handles PUT /v1/reservations/:id/cancel
func (h *Handlers) CancelReservation(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id", "code": "BAD_REQUEST"})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	if err := h.Booking.Cancel(c.Request.Context(), identity, reservationID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": reservationID, "status": reservation.StatusCancelled})
}

// SetReservationStatus handles PUT /v1/reservations/:id/status
func (h *Handlers) SetReservationStatus(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id", "code": "BAD_REQUEST"})
		return
	}

	var req dto.SetReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	if err := h.Booking.SetStatus(c.Request.Context(), identity, reservationID, reservation.Status(req.Status)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": reservationID, "status": req.Status})
}

// ListMyReservations handles GET /v1/reservations/mine
func (h *Handlers) ListMyReservations(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	reservations, err := h.Booking.ListMine(c.Request.Context(), identity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}
