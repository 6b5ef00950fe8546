package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Dialects understood by MigrateServer.
const (
	DialectPostgres = "pgx"
	DialectSQLite   = "sqlite3"
)

//go:embed client/*.sql
var clientMigrations embed.FS

//go:embed server/*.sql
var serverMigrations embed.FS

// MigrateClient brings the local SQLite board database up to date.
func MigrateClient(db *sql.DB) error {
	return migrate(db, clientMigrations, DialectSQLite, "client")
}

// MigrateServer brings the remote authority database up to date. dialect is
// either DialectPostgres or DialectSQLite.
func MigrateServer(db *sql.DB, dialect string) error {
	return migrate(db, serverMigrations, dialect, "server")
}

func migrate(db *sql.DB, fsys embed.FS, dialect, dir string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
