package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExternalServiceErrorKeepsDetailOutOfMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	appErr := ExternalServiceError("Failed to calculate shipping rates", cause)

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Failed to calculate shipping rates", appErr.Message)
	assert.NotContains(t, appErr.Message, "connection refused")

	// The full detail is available for logging and unwrapping.
	assert.Contains(t, appErr.Error(), "connection refused")
	assert.ErrorIs(t, appErr, cause)
}
