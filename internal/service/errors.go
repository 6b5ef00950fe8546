package service

import "errors"

var (
	// ErrLocalPersistence means the local store or the operation log refused a
	// write. The optimistic change has been rolled back and nothing was queued.
	ErrLocalPersistence = errors.New("local persistence failed")

	ErrEntityNotFound    = errors.New("entity not found")
	ErrUnknownIntent     = errors.New("unknown intent type")
	ErrInvalidIntent     = errors.New("invalid intent")
	ErrConflictNotFound  = errors.New("no pending conflict with this id")
	ErrUnknownResolution = errors.New("unknown conflict resolution")

	// ErrMalformedOperation marks a queued operation whose payload does not
	// match its type. It is dropped like a permanent rejection.
	ErrMalformedOperation = errors.New("malformed queued operation")

	ErrReadingQueue    = errors.New("failed to read operation queue")
	ErrRefreshingBoard = errors.New("failed to refresh board from remote")

	ErrInvalidDataProvided = errors.New("invalid data provided")
)

// ErrVersionIsNotSpecified is returned at startup when the server has no
// application version configured.
var ErrVersionIsNotSpecified = errors.New("application version is not specified")
