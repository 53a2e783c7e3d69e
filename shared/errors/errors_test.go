package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Field: "image", Message: "Only JPEG and PNG images are supported"}, "Only JPEG and PNG images are supported"},
		{"wrapped validation", fmt.Errorf("select: %w", &ValidationError{Message: "Image must be less than 500KB"}), "Image must be less than 500KB"},
		{"network", &NetworkError{Op: "GET /api/posts/feed/", Err: context.DeadlineExceeded}, MsgNetwork},
		{"server with message", &ServerError{StatusCode: 429, Message: "You can only post once every 5 minutes"}, "You can only post once every 5 minutes"},
		{"server without message", &ServerError{StatusCode: http.StatusNotFound}, "Not Found"},
		{"decode", &ImageDecodeError{Err: fmt.Errorf("bad header")}, MsgImageProcess},
		{"encode", fmt.Errorf("normalize: %w", &ImageEncodeError{Err: fmt.Errorf("boom")}), MsgImageProcess},
		{"status", &ErrorWithStatusCode{Message: "post not found", StatusCode: 404}, "post not found"},
		{"unknown", fmt.Errorf("boom"), "Something went wrong, please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(&ValidationError{}))
	assert.Equal(t, http.StatusBadGateway, StatusCode(&NetworkError{Err: fmt.Errorf("refused")}))
	assert.Equal(t, http.StatusForbidden, StatusCode(&ServerError{StatusCode: http.StatusForbidden}))
	assert.Equal(t, http.StatusNotFound, StatusCode(&ErrorWithStatusCode{StatusCode: http.StatusNotFound}))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("boom")))
}

func TestUnwrap(t *testing.T) {
	err := &NetworkError{Op: "POST /account/token", Err: context.Canceled}
	assert.ErrorIs(t, err, context.Canceled)

	decodeErr := &ImageDecodeError{Err: context.DeadlineExceeded}
	assert.ErrorIs(t, decodeErr, context.DeadlineExceeded)

	cause := fmt.Errorf("bad type")
	validationErr := fmt.Errorf("select: %w", &ValidationError{Message: "Only JPEG and PNG images are supported", Err: cause})
	assert.ErrorIs(t, validationErr, cause)
	assert.Equal(t, "Only JPEG and PNG images are supported", UserMessage(validationErr))
}
