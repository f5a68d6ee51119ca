package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tastestack/backend/internal/api"
	"github.com/tastestack/backend/internal/router"
	"github.com/tastestack/backend/internal/service"
	"github.com/tastestack/backend/internal/testhelpers"
)

// newTestServer wires the full router against an in-memory database with a
// local file store and no rate limiter.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	fileStore, err := service.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	authService := service.NewAuthService(db, testhelpers.TestJWTSecret)
	recipeService := service.NewRecipeService(db)
	interactionService := service.NewInteractionService(db)
	userService := service.NewUserService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService, userService, fileStore),
		api.NewRecipeHandler(recipeService, interactionService, authService, fileStore),
		api.NewInteractionHandler(interactionService, authService),
		[]string{"http://localhost:5173"},
		nil,
	)
	return engine, db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
