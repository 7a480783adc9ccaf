package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidInput, ErrNetwork}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "product not found"}
	assert.Equal(t, "NOT_FOUND: product not found", appErr.Error())

	wrapped := &AppError{Code: "INTERNAL_ERROR", Message: "boom", Err: fmt.Errorf("redis down")}
	assert.Contains(t, wrapped.Error(), "redis down")
}

func TestNotFound(t *testing.T) {
	err := NotFound("product", "42")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, "product with id 42 not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsRetryable(err))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("cart is empty")
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNetwork_KeepsCauseAndSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := Network("catalog", cause)

	assert.Equal(t, "NETWORK_ERROR", err.Code)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRetryable(err))

	// Still detectable once wrapped by callers.
	assert.True(t, IsRetryable(fmt.Errorf("list products: %w", err)))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", InvalidInput("bad"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped network", fmt.Errorf("get: %w", ErrNetwork), http.StatusBadGateway},
		{"plain", errors.New("unknown"), http.StatusInternalServerError},
	}
	assert.False(t, IsRetryable(errors.New("unknown")))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
