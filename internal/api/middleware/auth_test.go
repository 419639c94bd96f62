package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacerta/rideshare/internal/domain/user"
	"github.com/rotacerta/rideshare/internal/service/auth"
	"github.com/rotacerta/rideshare/pkg/logger"
)

func newRouter(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log, err := logger.New(logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	authSvc := auth.NewService(db, nil, log, auth.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour})

	r := gin.New()
	r.Use(Authenticate(authSvc))
	r.GET("/whoami", func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "role": identity.Role})
	})
	r.GET("/drivers-only", RequireRole(user.RoleDriver), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, authSvc
}

func TestAuthenticate_MissingToken(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	r, authSvc := newRouter(t)

	token, err := authSvc.IssueToken(&user.User{ID: 7, Role: user.RoleRider})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestRequireRole_BlocksWrongRole(t *testing.T) {
	r, authSvc := newRouter(t)

	token, err := authSvc.IssueToken(&user.User{ID: 7, Role: user.RoleRider})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drivers-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	r, authSvc := newRouter(t)

	token, err := authSvc.IssueToken(&user.User{ID: 2, Role: user.RoleDriver})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drivers-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
