package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input", nil), http.StatusBadRequest},
		{Conflict("duplicate"), http.StatusBadRequest},
		{Auth("bad credentials"), http.StatusUnauthorized},
		{Permission("not yours"), http.StatusForbidden},
		{NotFound("recipe"), http.StatusNotFound},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading profile: %w", NotFound("user"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestInternalPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
