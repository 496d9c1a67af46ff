package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict") // e.g., email already registered
	ErrInternalServer     = errors.New("internal server error")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("service unavailable") // e.g. google login not configured
)

// Error pairs a client-safe message with one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrInvalidCredentials   = &Error{Kind: ErrUnauthorized, Message: "invalid credentials"}
	ErrCouldNotValidate     = &Error{Kind: ErrUnauthorized, Message: "could not validate credentials"}
	ErrInvalidIdentityToken = &Error{Kind: ErrUnauthorized, Message: "invalid token"}
	ErrNotAuthorized        = &Error{Kind: ErrForbidden, Message: "not authorized"}
)

// NewError returns a typed error of the given kind.
func NewError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return http.StatusServiceUnavailable
	}

	if IsUniqueViolation(err) {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// IsUniqueViolation reports whether err carries a postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// PublicMessage returns the text that may be shown to a client for err.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	switch HTTPStatusFromError(err) {
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnauthorized:
		return ErrCouldNotValidate.Message
	case http.StatusForbidden:
		return ErrNotAuthorized.Message
	case http.StatusConflict:
		return "resource already exists"
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusServiceUnavailable:
		return "service unavailable"
	}
	return ErrInternalServer.Error()
}
