package service

import (
	"context"

	"github.com/MKhiriev/go-board-sync/models"
)

// QueueGuard reports whether local state may be replaced wholesale. It is
// evaluated while the board lock is held.
type QueueGuard func(ctx context.Context) (bool, error)

// ClientBoardService is the dispatch coordinator: it owns the in-memory board,
// applies user intents optimistically and queues them for the sync processor.
type ClientBoardService interface {
	// Load fills the in-memory board from the local entity store.
	Load(ctx context.Context) error

	// Apply performs one intent: optimistic apply, local persist, and exactly
	// one append to the operation log. It returns the affected entity id. On a
	// local write failure the state is rolled back and the error matches
	// ErrLocalPersistence.
	Apply(ctx context.Context, intent models.Intent) (string, error)

	// Board returns a sorted deep copy of the current state.
	Board() models.Board

	// Get returns a copy of one entity.
	Get(kind models.EntityKind, id string) (models.Entity, bool)

	// Absorb writes entities coming from the remote side (merge results,
	// keep-remote resolutions) into the store and memory.
	Absorb(ctx context.Context, entities ...models.Entity) error

	// Discard removes an entity the authority never accepted. Discarding a
	// list drops its cards as well.
	Discard(ctx context.Context, kind models.EntityKind, id string) error

	// Acknowledge raises the local version of an entity to version when the
	// local one is lower. Fields are left untouched.
	Acknowledge(ctx context.Context, kind models.EntityKind, id string, version int64) error

	// ReplaceFromRemote swaps the whole local board for board when guard
	// allows it, and reports whether it did.
	ReplaceFromRemote(ctx context.Context, board models.Board, guard QueueGuard) (bool, error)
}

// ClientSyncService drains the operation log against the remote authority.
type ClientSyncService interface {
	// Drain sends queued operations in order until the queue is empty, the
	// remote is unreachable, or a conflict blocks the queue. Concurrent calls
	// coalesce. Network failures are not errors.
	Drain(ctx context.Context) error

	// ResolveConflict unblocks the queue. id is the key of the blocking
	// operation; server is the entity to adopt or to stamp the version from.
	// A zero server entity means the one reported with the conflict.
	ResolveConflict(ctx context.Context, id int64, resolution models.Resolution, server models.Entity) error

	// Refresh replaces local state with the remote board when nothing is
	// queued and no conflict is pending.
	Refresh(ctx context.Context) error

	// Status returns the observable sync state.
	Status(ctx context.Context) models.SyncStatus

	// SetOnline records connectivity. Going online triggers a drain.
	SetOnline(online bool)

	// Trigger asks for a drain without blocking. Signals coalesce.
	Trigger()

	// Triggers is the channel drain workers listen on.
	Triggers() <-chan struct{}

	// Subscribe registers a listener for conflict and sync-error events. The
	// returned function unsubscribes and closes the channel.
	Subscribe() (<-chan models.SyncEvent, func())
}
