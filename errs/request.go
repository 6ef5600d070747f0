package errs

import (
	"errors"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingSession = errors.New("missing session cookie")
	ErrExpiredSession = errors.New("expired session")
	ErrInvalidSession = errors.New("invalid session")
)

func Malformed(payloadName string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, payloadName+" malformed")
}

func BadRequest(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, message)
}

// Session Error Constructors

func NewMissingSessionError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingSession,
		Details:    "No session cookie present",
		Field:      "session",
	}
}

func NewExpiredSessionError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrExpiredSession,
		Details:    "Session has expired, log in again",
		Field:      "session",
	}
}

func NewInvalidSessionError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidSession,
		Details:    "Session cookie failed verification",
		Field:      "session",
	}
}
