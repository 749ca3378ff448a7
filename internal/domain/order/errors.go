package order

import "errors"

// Error taxonomy. Callers classify failures with errors.Is against these
// sentinels; specific causes are wrapped around them.
var (
	// ErrValidation marks a malformed or incomplete request. Nothing was
	// written to the store.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence marks a failed store operation. The caller may retry.
	ErrPersistence = errors.New("order store failure")

	// ErrNotFound marks an update against an order id the store does not have.
	ErrNotFound = errors.New("order not found")
)
