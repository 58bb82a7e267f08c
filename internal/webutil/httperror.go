package webutil

import "net/http"

// HTTPError carries a status code and a message safe to show the client.
// The wrapped cause, if any, is only logged.
type HTTPError struct {
	Code    int
	Message string
	Cause   error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Cause }

// ErrBadRequest builds a 400 error
func ErrBadRequest(message string) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Message: message}
}

// ErrUnauthorized builds a 401 error
func ErrUnauthorized(message string, cause error) *HTTPError {
	return &HTTPError{Code: http.StatusUnauthorized, Message: message, Cause: cause}
}

// ErrNotFound builds a 404 error
func ErrNotFound(message string) *HTTPError {
	return &HTTPError{Code: http.StatusNotFound, Message: message}
}

// ErrBadGateway builds a 502 error for upstream provider failures
func ErrBadGateway(message string, cause error) *HTTPError {
	return &HTTPError{Code: http.StatusBadGateway, Message: message, Cause: cause}
}
