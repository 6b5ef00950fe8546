package store

import (
	"context"

	"github.com/MKhiriev/go-board-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// EntityStore is the durable local table of lists and cards.
type EntityStore interface {
	// GetAll returns every entity of the kind ordered by position.
	GetAll(ctx context.Context, kind models.EntityKind) ([]models.Entity, error)
	// Get returns one entity or ErrEntityNotFound.
	Get(ctx context.Context, kind models.EntityKind, id string) (models.Entity, error)
	// Put inserts or replaces an entity.
	Put(ctx context.Context, entity models.Entity) error
	// Delete removes an entity. Deleting a list removes its cards too.
	Delete(ctx context.Context, kind models.EntityKind, id string) error
	// BatchPut upserts all entities in one transaction.
	BatchPut(ctx context.Context, entities []models.Entity) error
	// ReplaceAll atomically swaps the whole local board.
	ReplaceAll(ctx context.Context, board models.Board) error
}

// OperationLog is the durable FIFO of operations awaiting confirmation.
type OperationLog interface {
	// Append stores op and returns its monotonic key.
	Append(ctx context.Context, op models.QueuedOperation) (int64, error)
	// ReadAll returns all operations in key order.
	ReadAll(ctx context.Context) ([]models.QueuedOperation, error)
	// Remove deletes the operation with key. A missing key is not an error.
	Remove(ctx context.Context, key int64) error
	// Replace rewrites the payload of an existing operation in place.
	Replace(ctx context.Context, op models.QueuedOperation) error
	// Get returns one operation or ErrOperationNotFound.
	Get(ctx context.Context, key int64) (models.QueuedOperation, error)
	// Len returns the number of queued operations.
	Len(ctx context.Context) (int, error)
}
