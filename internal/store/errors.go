package store

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-board-sync/models"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEntityNotFound is returned when a list or card with the requested id
	// does not exist.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrOperationNotFound is returned when the operation log has no entry
	// with the requested key.
	ErrOperationNotFound = errors.New("queued operation was not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the version supplied by the caller does not match the stored version.
	// The concrete error is a [*VersionConflictError] carrying the stored
	// entity.
	ErrVersionConflict = errors.New("entity version conflict occurred")

	// ErrInvalidKind is returned for an entity kind other than list or card.
	ErrInvalidKind = errors.New("invalid entity kind")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingPayload is returned when a JSON column cannot be encoded or
	// decoded.
	ErrEncodingPayload = errors.New("failed to encode json column")
)

// VersionConflictError reports that a conditional write lost the race. Current
// is the entity as it is stored right now.
type VersionConflictError struct {
	Current models.Entity
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s is at version %d", ErrVersionConflict, e.Current.Kind, e.Current.ID, e.Current.Version)
}

// Is makes errors.Is(err, ErrVersionConflict) match.
func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}
