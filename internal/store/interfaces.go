package store

import (
	"context"

	"github.com/MKhiriev/go-board-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// BoardRepository is the authoritative board storage of the remote
// authority.
type BoardRepository interface {
	// GetBoard returns all lists with their cards, ordered by position.
	GetBoard(ctx context.Context) (models.Board, error)
	// Create inserts e unless an entity with the same id exists, and returns
	// the stored entity in both cases.
	Create(ctx context.Context, e models.Entity) (models.Entity, error)
	// Update applies patch to the stored entity and increments its version.
	// A positive patch.Version must match the stored version, otherwise a
	// *VersionConflictError is returned.
	Update(ctx context.Context, kind models.EntityKind, id string, patch models.EntityPatch) (models.Entity, error)
	// Delete removes the entity. Deleting a list removes its cards. A missing
	// id is not an error.
	Delete(ctx context.Context, kind models.EntityKind, id string) error
	// Reorder applies a batch of position updates in one transaction. A
	// mismatched version aborts the whole batch.
	Reorder(ctx context.Context, kind models.EntityKind, updates []models.PositionUpdate) error
	// Reset removes every list and card.
	Reset(ctx context.Context) error
	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
}
