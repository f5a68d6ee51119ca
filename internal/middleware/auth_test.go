package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID uuid.UUID
}

func (v stubValidator) ValidateToken(token string) (*TokenClaims, error) {
	if token != "good-token" {
		return nil, errors.New("invalid token")
	}
	return &TokenClaims{UserID: v.userID}, nil
}

func newAuthTestRouter(required bool, validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := OptionalAuthMiddleware(validator)
	if required {
		mw = AuthMiddleware(validator)
	}
	router.GET("/protected", mw, func(c *gin.Context) {
		if id, ok := CallerID(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return router
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := newAuthTestRouter(true, stubValidator{userID: userID})

	w := get(router, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	w = get(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(router, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(router, "NotBearer good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(router, "Bearer")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := newAuthTestRouter(false, stubValidator{userID: userID})

	// Anonymous requests pass through with no caller id.
	w := get(router, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	w = get(router, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	// A present but invalid token is still an error, not anonymous access.
	w = get(router, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
