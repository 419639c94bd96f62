package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/rideshare/internal/api/dto"
	"github.com/rotacerta/rideshare/internal/api/middleware"
)

// OpenTicket handles POST /v1/support
func (h *Handlers) OpenTicket(c *gin.Context) {
	var req dto.OpenTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	t, err := h.Support.Open(c.Request.Context(), identity, req.Subject, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// ListMyTickets handles GET /v1/support/mine
func (h *Handlers) ListMyTickets(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	tickets, err := h.Support.ListMine(c.Request.Context(), identity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// RespondTicket handles PUT /v1/support/:id/respond
func (h *Handlers) RespondTicket(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id", "code": "BAD_REQUEST"})
		return
	}

	var req dto.RespondTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	t, err := h.Support.Respond(c.Request.Context(), identity, ticketID, req.Response)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}
