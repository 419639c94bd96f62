// Package middleware carries the gin middleware for the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/rideshare/internal/domain/user"
	"github.com/rotacerta/rideshare/internal/service/auth"
)

const identityKey = "identity"

// Authenticate validates the bearer token and stashes the resolved
// identity on the request context. Requests without a valid token get 401.
func Authenticate(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "Missing bearer token", "code": "UNAUTHENTICATED"})
			return
		}

		identity, err := authSvc.ResolveIdentity(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "Invalid or expired token", "code": "UNAUTHENTICATED"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole rejects requests whose identity does not carry the role.
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok || identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": "Insufficient role", "code": "FORBIDDEN"})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity Authenticate stored, if any.
func CurrentIdentity(c *gin.Context) (user.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return user.Identity{}, false
	}
	identity, ok := v.(user.Identity)
	return identity, ok
}
