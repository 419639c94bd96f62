package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/rideshare/internal/api/dto"
	"github.com/rotacerta/rideshare/internal/api/middleware"
	"github.com/rotacerta/rideshare/internal/domain/trip"
	"github.com/rotacerta/rideshare/pkg/dateparse"
)

// tripResponse flattens a trip for API output with the departure in the
// short display format.
func tripResponse(t trip.Trip) gin.H {
	return gin.H{
		"id":              t.ID,
		"driver_id":       t.DriverID,
		"driver_name":     t.DriverName,
		"origin":          t.Origin,
		"destination":     t.Destination,
		"departure":       dateparse.Format(t.DepartureTime),
		"seats_total":     t.SeatsTotal,
		"seats_available": t.SeatsAvailable,
		"status":          t.Status,
	}
}

// CreateTrip handles POST /v1/trips
func (h *Handlers) CreateTrip(c *gin.Context) {
	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	t, err := h.Trips.Create(c.Request.Context(), identity, req.Origin, req.Destination, req.Departure, req.Seats)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tripResponse(*t))
}

// SearchTrips handles GET /v1/trips
func (h *Handlers) SearchTrips(c *gin.Context) {
	filter := trip.SearchFilter{
		DriverName:  c.Query("driver"),
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		DateRaw:     c.Query("date"),
	}

	results, err := h.Trips.Search(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, t := range results {
		out = append(out, tripResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

// SetTripStatus handles PUT /v1/trips/:id/status
func (h *Handlers) SetTripStatus(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id", "code": "BAD_REQUEST"})
		return
	}

	var req dto.SetTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	if err := h.Trips.SetStatus(c.Request.Context(), identity, tripID, trip.Status(req.Status)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": tripID, "status": req.Status})
}
