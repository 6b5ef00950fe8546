package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/migrations"
)

// Storages groups the repositories of the remote authority.
type Storages struct {
	BoardRepository BoardRepository

	db *DB
}

// NewStorages connects to the configured database, migrates it and wires the
// repositories. A postgres:// DSN selects PostgreSQL; anything else is
// treated as a SQLite file.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)
	if cfg.IsPostgres() {
		db, err = NewConnectPostgres(ctx, cfg.DSN, log)
	} else {
		db, err = NewConnectSQLite(ctx, cfg.DSN, log)
	}
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = migrations.MigrateServer(db.DB, db.Dialect()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		BoardRepository: NewBoardRepository(db, log),
		db:              db,
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
