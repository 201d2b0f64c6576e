package services

import "errors"

// Error kinds returned by the forum core. Controllers map them to HTTP
// responses with errors.Is; all of them are recoverable at the call site.
var (
	// ErrValidation covers malformed or empty input and slug collision
	// exhaustion.
	ErrValidation = errors.New("validation failed")
	// ErrPermissionDenied covers unauthenticated callers and unauthorized
	// mutation attempts.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound covers missing and soft-deleted entities.
	ErrNotFound = errors.New("not found")
	// ErrTopicLocked is returned when replying to a locked topic.
	ErrTopicLocked = errors.New("topic locked")
)
