package errors

import "net/http"

var (
	ErrUnsupportedCurrency = &DomainError{
		Code:    "UNSUPPORTED_CURRENCY",
		Message: "unsupported currency",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
		Status:  http.StatusBadRequest,
	}
	ErrPaymentNotFound = &DomainError{
		Code:    "PAYMENT_NOT_FOUND",
		Message: "payment not found",
		Status:  http.StatusNotFound,
	}
	ErrWalletNotConfigured = &DomainError{
		Code:    "WALLET_NOT_CONFIGURED",
		Message: "XRP wallet address not configured",
		Status:  http.StatusServiceUnavailable,
	}
	ErrGatewayNotConfigured = &DomainError{
		Code:    "GATEWAY_NOT_CONFIGURED",
		Message: "payment gateway API key not configured",
		Status:  http.StatusServiceUnavailable,
	}
	ErrInvoiceCreation = &DomainError{
		Code:    "INVOICE_CREATION_FAILED",
		Message: "failed to create provider invoice",
		Status:  http.StatusBadGateway,
	}
	ErrPaymentFailed = &DomainError{
		Code:    "PAYMENT_FAILED",
		Message: "failed to create payment",
		Status:  http.StatusInternalServerError,
	}
)
