package clients

import "errors"

// Sentinel errors of the client layer. They describe infrastructure
// failures; the acl package translates them into domain errors before
// they reach the application.
var (
	// ErrCircuitOpen means the breaker is refusing calls because the
	// upstream has been failing.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once the
	// retry budget runs out.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
