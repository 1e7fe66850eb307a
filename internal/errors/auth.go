package errors

import "net/http"

var (
	ErrEmailTaken = &DomainError{
		Code:    "EMAIL_TAKEN",
		Message: "email already registered",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
	}
	ErrInvalidToken = &DomainError{
		Code:    "INVALID_TOKEN",
		Message: "missing or invalid token",
		Status:  http.StatusUnauthorized,
	}
	ErrInvalidSignature = &DomainError{
		Code:    "INVALID_SIGNATURE",
		Message: "invalid webhook signature",
		Status:  http.StatusUnauthorized,
	}
)
