package repositories

import "errors"

var (
	ErrMerchantNotFound  = errors.New("merchant not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDatabaseOperation = errors.New("database operation failed")

	// ErrNoUpdate is returned by an UpdateWithLock callback to commit
	// without writing, leaving the row byte-for-byte untouched.
	ErrNoUpdate = errors.New("no update required")
)
