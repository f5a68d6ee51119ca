package api

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/tastestack/backend/internal/apperrors"
)

// respondError translates a service error into the API's error body:
// {error: string, details?: object}. Internal failures are logged and
// surfaced with a generic message.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		body := gin.H{"error": appErr.Message}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		c.JSON(status, body)
		return
	}

	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(status, gin.H{"error": "internal server error"})
}
