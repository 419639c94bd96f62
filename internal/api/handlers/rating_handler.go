package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/rideshare/internal/api/dto"
	"github.com/rotacerta/rideshare/internal/api/middleware"
)

// RateDriver handles POST /v1/reservations/:id/rate-driver
func (h *Handlers) RateDriver(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id", "code": "BAD_REQUEST"})
		return
	}

	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	r, err := h.Ratings.RateDriver(c.Request.Context(), identity, reservationID, req.Score, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

// RateRider handles POST /v1/reservations/:id/rate-rider
func (h *Handlers) RateRider(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id", "code": "BAD_REQUEST"})
		return
	}

	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	r, err := h.Ratings.RateRider(c.Request.Context(), identity, reservationID, req.Score, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}
