package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-board-sync/internal/logger"
)

// maxRetryAttempts bounds how many times a statement classified as
// [Retryable] is attempted.
const maxRetryAttempts = 3

// ErrorClassificator decides whether a driver error is worth retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB wraps a *sql.DB with the dialect-specific pieces the repositories need:
// the error classifier and the squirrel placeholder format.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	placeholder        sq.PlaceholderFormat
	dialect            string
	logger             *logger.Logger
}

// Dialect returns the goose dialect name of the connection.
func (db *DB) Dialect() string {
	return db.dialect
}

func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}

// withRetry runs fn until it succeeds, returns a non-retryable error, or the
// attempt budget is exhausted.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		err = fn()
		if err == nil || db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return err
		}
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "DB.withRetry").
			Int("attempt", attempt).
			Msg("retryable database error")
	}
	return err
}

// inTx runs fn inside a transaction and commits it. fn's error rolls the
// transaction back.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
