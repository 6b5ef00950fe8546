package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the drain and connectivity workers of the client.
func NewWorkers(syncService service.ClientSyncService, remote Pinger, cfg config.ClientWorkers, logger *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		newConnectivityWorker(remote, syncService, cfg.ProbeInterval, logger),
		newDrainWorker(syncService, cfg.SyncInterval, logger),
	}}
}

// Run starts every worker and blocks until all of them return.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	wg.Wait()
}
