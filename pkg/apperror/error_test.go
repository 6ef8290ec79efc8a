package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("Invalid JSON").Code)
	assert.Equal(t, "Method Not Allowed", MethodNotAllowed().Message)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests().Code)

	cause := errors.New("dial tcp: refused")
	err := Internal(cause)
	assert.Equal(t, "Internal Server Error", err.Error())
	assert.ErrorIs(t, err, cause)
}
