package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/rideshare/internal/api/dto"
	"github.com/rotacerta/rideshare/internal/domain/user"
	"github.com/rotacerta/rideshare/internal/service/auth"
	"github.com/rotacerta/rideshare/pkg/logger"
)

// Register handles POST /v1/auth/register. Registration is multipart so
// drivers can attach their scanned document in the same request.
func (h *Handlers) Register(c *gin.Context) {
	in := auth.RegisterInput{
		Name:          c.PostForm("name"),
		Email:         c.PostForm("email"),
		Password:      c.PostForm("password"),
		Phone:         c.PostForm("phone"),
		Role:          user.Role(c.PostForm("role")),
		LicenseNumber: c.PostForm("license_number"),
		VehicleModel:  c.PostForm("vehicle_model"),
		VehiclePlate:  c.PostForm("vehicle_plate"),
	}

	if fh, err := c.FormFile("document"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read document upload", "code": "BAD_REQUEST"})
			return
		}
		defer f.Close()
		in.Document = f
		in.DocumentName = fh.Filename
	}

	u, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("User registered",
		logger.Int64("user_id", u.ID),
		logger.String("role", string(u.Role)),
	)
	c.JSON(http.StatusCreated, u)
}

// Login handles POST /v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	token, u, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// ListDrivers handles GET /v1/drivers
func (h *Handlers) ListDrivers(c *gin.Context) {
	users, err := h.Auth.ListByRole(c.Request.Context(), user.RoleDriver)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListRiders handles GET /v1/riders
func (h *Handlers) ListRiders(c *gin.Context) {
	users, err := h.Auth.ListByRole(c.Request.Context(), user.RoleRider)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
