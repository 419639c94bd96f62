package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		code   string
	}{
		{"not found", ErrTripNotFound, 404, "NOT_FOUND"},
		{"forbidden", ErrNotTripOwner, 403, "FORBIDDEN"},
		{"invalid state", ErrNoSeatsAvailable, 409, "INVALID_STATE"},
		{"double cancel", ErrReservationCancelled, 409, "INVALID_STATE"},
		{"conflict", ErrEmailTaken, 409, "CONFLICT"},
		{"unauthorized", ErrInvalidCredentials, 401, "UNAUTHORIZED"},
		{"bad request", BadRequest("nope", nil), 400, "BAD_REQUEST"},
		{"internal", Internal("boom", nil), 500, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestGetAppError_PassesThroughWrapped(t *testing.T) {
	wrapped := fmt.Errorf("while cancelling: %w", ErrReservationCancelled)
	appErr := GetAppError(wrapped)
	assert.Equal(t, "INVALID_STATE", appErr.Code)
	assert.True(t, IsAppError(wrapped))
}

func TestGetAppError_UnknownErrorReadsAsInternal(t *testing.T) {
	appErr := GetAppError(errors.New("disk on fire"))
	assert.Equal(t, 500, appErr.Status)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	assert.False(t, IsAppError(errors.New("disk on fire")))
}

func TestWrapKeepsChain(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	err := Wrap(ErrTripNotFound, "loading trip 10")
	assert.True(t, errors.Is(err, ErrTripNotFound))
	assert.Contains(t, err.Error(), "loading trip 10")
}
