package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/migrations"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL создаёт DB из существующего *sql.DB (для тестов).
func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		placeholder:        sq.Dollar,
		dialect:            migrations.DialectPostgres,
		logger:             logger.Nop(),
	}
}

// newTestSQLite opens a migrated client database in a temp dir.
func newTestSQLite(t *testing.T) *DB {
	t.Helper()
	db, err := NewConnectSQLite(context.Background(), filepath.Join(t.TempDir(), "board.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.MigrateClient(db.DB))
	return db
}

// newTestServerSQLite opens a migrated authority database in a temp dir.
func newTestServerSQLite(t *testing.T) *DB {
	t.Helper()
	db, err := NewConnectSQLite(context.Background(), filepath.Join(t.TempDir(), "authority.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.MigrateServer(db.DB, migrations.DialectSQLite))
	return db
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}
