package service

import (
	"github.com/MKhiriev/go-board-sync/internal/adapter"
	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/internal/utils"
	"github.com/MKhiriev/go-board-sync/internal/validators"
)

type ClientServices struct {
	BoardService ClientBoardService
	SyncService  ClientSyncService
}

// NewClientServices wires the dispatcher and the sync processor around one
// shared drain trigger.
func NewClientServices(storages *store.ClientStorages, remote adapter.RemoteAuthority, workers config.ClientWorkers, logger *logger.Logger) *ClientServices {
	trigger := newSyncTrigger()

	board := newDispatcher(
		storages.Entities,
		storages.Operations,
		validators.NewEntityValidator(),
		utils.NewUUIDGenerator(),
		trigger,
	)
	syncSvc := newSyncProcessor(storages.Operations, board, remote, trigger, workers.MaxMergeRetries, logger)

	return &ClientServices{
		BoardService: board,
		SyncService:  syncSvc,
	}
}
