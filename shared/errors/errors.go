package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

const (
	MsgNetwork      = "Network error occurred"
	MsgImageProcess = "could not process image"
)

// ValidationError is a client-side rejection. No network call was made.
// Err optionally carries the sentinel that caused it.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NetworkError means the backend could not be reached or the call timed out.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unavailable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx backend response. Message is taken from the payload.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// ImageDecodeError means the selected bytes could not be decoded as an image.
type ImageDecodeError struct {
	Err error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// ImageEncodeError means the normalized surface could not be encoded.
type ImageEncodeError struct {
	Err error
}

func (e *ImageEncodeError) Error() string {
	return fmt.Sprintf("encode image: %v", e.Err)
}

func (e *ImageEncodeError) Unwrap() error { return e.Err }

// UserMessage maps an error onto the string shown next to the triggering control.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		validationErr *ValidationError
		networkErr    *NetworkError
		serverErr     *ServerError
		decodeErr     *ImageDecodeError
		encodeErr     *ImageEncodeError
		statusErr     *ErrorWithStatusCode
	)
	switch {
	case stderrors.As(err, &validationErr):
		return validationErr.Message
	case stderrors.As(err, &networkErr):
		return MsgNetwork
	case stderrors.As(err, &serverErr):
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return http.StatusText(serverErr.StatusCode)
	case stderrors.As(err, &decodeErr), stderrors.As(err, &encodeErr):
		return MsgImageProcess
	case stderrors.As(err, &statusErr):
		return statusErr.Message
	default:
		return "Something went wrong, please try again"
	}
}

// StatusCode picks the HTTP status a view should answer with for err.
func StatusCode(err error) int {
	var (
		validationErr *ValidationError
		networkErr    *NetworkError
		serverErr     *ServerError
		statusErr     *ErrorWithStatusCode
	)
	switch {
	case stderrors.As(err, &validationErr):
		return http.StatusBadRequest
	case stderrors.As(err, &networkErr):
		return http.StatusBadGateway
	case stderrors.As(err, &serverErr):
		return serverErr.StatusCode
	case stderrors.As(err, &statusErr):
		return statusErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}
