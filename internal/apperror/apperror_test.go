package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryTheirKind(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{BadRequest("bad input"), ErrBadRequest},
		{NotFound("Video"), ErrNotFound},
		{Conflict("already exists"), ErrConflict},
		{Forbidden("not yours"), ErrForbidden},
		{Unauthorized("who are you"), ErrUnauthorized},
	}

	for _, tc := range tests {
		assert.ErrorIs(t, tc.err, tc.kind)
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Channel not found", NotFound("Channel").Error())
}

func TestKindSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("error getting video: %w", NotFound("Video"))

	require.ErrorIs(t, wrapped, ErrNotFound)

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "Video not found", appErr.Message)
}
