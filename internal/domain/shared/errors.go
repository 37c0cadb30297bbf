package shared

import "errors"

// Domain-specific errors
var (
	// Session errors
	ErrNotAuthenticated = errors.New("no authenticated session")

	// Gateway errors
	ErrEmptyPayload   = errors.New("outcome carries no payload")
	ErrNotSuccess     = errors.New("outcome is not a success")
	ErrInvalidBaseURL = errors.New("invalid API base URL")
)
