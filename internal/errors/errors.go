// Package errors defines the domain error taxonomy shared across services
// and the HTTP status each kind maps to at the edge.
package errors

import "net/http"

// DomainError carries a machine-stable code, a human-readable message and
// the HTTP status the handlers respond with. Internal details never leak
// into the message.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// New builds a one-off DomainError. Prefer the package-level values for
// conditions callers need to match on.
func New(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, Status: status}
}

// Validation builds a bad-input error with a request-specific message.
func Validation(message string) *DomainError {
	return &DomainError{Code: "VALIDATION_ERROR", Message: message, Status: http.StatusBadRequest}
}

// Unprocessable builds a 422 for well-formed requests with invalid field values.
func Unprocessable(message string) *DomainError {
	return &DomainError{Code: "VALIDATION_ERROR", Message: message, Status: http.StatusUnprocessableEntity}
}
