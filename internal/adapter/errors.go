package adapter

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-board-sync/models"
)

var (
	// ErrNetworkUnavailable means the remote authority could not be reached
	// or answered with a transient 5xx. The request may be retried later.
	ErrNetworkUnavailable = errors.New("remote authority unavailable")
	// ErrVersionConflict matches every *ConflictError.
	ErrVersionConflict = errors.New("version conflict")
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("not found")
	// ErrUnexpectedStatus covers every other non-2xx answer.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrDecodingResponse means a 2xx body could not be decoded.
	ErrDecodingResponse = errors.New("failed to decode response")
)

// ConflictError is returned for HTTP 409. Server is the entity as the remote
// authority currently stores it.
type ConflictError struct {
	Server  models.Entity
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s is at version %d", ErrVersionConflict, e.Server.Kind, e.Server.ID, e.Server.Version)
}

// Is makes errors.Is(err, ErrVersionConflict) match.
func (e *ConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}
