package payment

import "errors"

// Service errors
var (
	// ErrOutcomeConflict means a webhook reported a different terminal
	// outcome than the one already recorded. It is logged and never
	// auto-applied.
	ErrOutcomeConflict = errors.New("conflicting terminal outcome for settled payment")
)
