// Package workers provides the background jobs of the board client.
//
// It defines the [Worker] interface and a [Workers] aggregate that runs a set
// of workers until their context is cancelled.
package workers

import (
	"context"

	"github.com/MKhiriev/go-board-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// Syncer is the part of the sync processor used by the drain worker.
type Syncer interface {
	Drain(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status(ctx context.Context) models.SyncStatus
	Triggers() <-chan struct{}
}

// ConnectivityReporter records the result of a connectivity probe.
type ConnectivityReporter interface {
	SetOnline(online bool)
}

// Pinger checks that the remote authority is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
