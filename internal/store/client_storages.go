package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/migrations"
)

// ClientStorages groups the durable client-side stores into a single value
// that can be passed around the service layer.
type ClientStorages struct {
	// Entities is the local table of lists and cards.
	Entities EntityStore
	// Operations is the FIFO of operations awaiting confirmation.
	Operations OperationLog

	db *DB
}

// NewClientStorages initialises the client storage layer:
//  1. Opens the SQLite file at cfg.DB.DSN in WAL mode, creating it if needed.
//  2. Runs pending schema migrations.
//  3. Wires the entity store and the operation log to the same connection.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = migrations.MigrateClient(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Entities:   NewEntityRepository(db, logger),
		Operations: NewOperationRepository(db, logger),
		db:         db,
	}, nil
}

// Close releases the underlying database connection.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
