package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/rotacerta/rideshare/internal/api/handlers"
	"github.com/rotacerta/rideshare/internal/api/middleware"
	"github.com/rotacerta/rideshare/internal/domain/user"
	"github.com/rotacerta/rideshare/internal/service/auth"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, authSvc *auth.Service, nrApp *newrelic.Application, allowedOrigins []string) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsCfg.AllowOrigins = allowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Public endpoints
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)
		v1.GET("/trips", h.SearchTrips)
		v1.GET("/drivers", h.ListDrivers)
		v1.GET("/riders", h.ListRiders)

		authed := v1.Group("")
		authed.Use(middleware.Authenticate(authSvc))
		{
			// Trip endpoints (driver side)
			trips := authed.Group("/trips")
			trips.Use(middleware.RequireRole(user.RoleDriver))
			{
				trips.POST("", h.CreateTrip)
				trips.PUT("/:id/status", h.SetTripStatus)
			}

			// Reservation endpoints
			reservations := authed.Group("/reservations")
			{
				reservations.POST("", middleware.RequireRole(user.RoleRider), h.CreateReservation)
				reservations.GET("/mine", middleware.RequireRole(user.RoleRider), h.ListMyReservations)
				reservations.PUT("/:id/cancel", middleware.RequireRole(user.RoleRider), h.CancelReservation)
				reservations.PUT("/:id/status", middleware.RequireRole(user.RoleDriver), h.SetReservationStatus)
				reservations.POST("/:id/rate-driver", middleware.RequireRole(user.RoleRider), h.RateDriver)
				reservations.POST("/:id/rate-rider", middleware.RequireRole(user.RoleDriver), h.RateRider)
			}

			// Support endpoints
			support := authed.Group("/support")
			{
				support.POST("", h.OpenTicket)
				support.GET("/mine", h.ListMyTickets)
				support.PUT("/:id/respond", h.RespondTicket)
			}
		}
	}
}
