package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// entityRepository is the SQLite-backed [EntityStore] of the board client.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityStore] on top of db.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityStore {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *entityRepository) GetAll(ctx context.Context, kind models.EntityKind) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := r.builder().
		Select(columnsFor(kind)...).
		From(table).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var entities []models.Entity
	err = r.withRetry(ctx, func() error {
		rows, queryErr := r.DB.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
		}
		defer rows.Close()

		entities, queryErr = scanEntities(rows, kind)
		return queryErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetAll").
			Str("kind", string(kind)).
			Msg("failed to read entities")
		return nil, err
	}

	return entities, nil
}

func (r *entityRepository) Get(ctx context.Context, kind models.EntityKind, id string) (models.Entity, error) {
	return getEntity(ctx, r.DB, r.DB.DB, kind, id)
}

func (r *entityRepository) Put(ctx context.Context, entity models.Entity) error {
	log := logger.FromContext(ctx)

	err := r.withRetry(ctx, func() error {
		return upsertEntity(ctx, r.DB, r.DB.DB, entity)
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Put").
			Str("kind", string(entity.Kind)).
			Str("id", entity.ID).
			Msg("failed to upsert entity")
		return err
	}

	return nil
}

func (r *entityRepository) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	log := logger.FromContext(ctx)

	err := r.withRetry(ctx, func() error {
		return r.inTx(ctx, func(tx *sql.Tx) error {
			return deleteEntity(ctx, r.DB, tx, kind, id)
		})
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Delete").
			Str("kind", string(kind)).
			Str("id", id).
			Msg("failed to delete entity")
		return err
	}

	return nil
}

func (r *entityRepository) BatchPut(ctx context.Context, entities []models.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	err := r.withRetry(ctx, func() error {
		return r.inTx(ctx, func(tx *sql.Tx) error {
			for _, e := range entities {
				if err := upsertEntity(ctx, r.DB, tx, e); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.BatchPut").
			Int("count", len(entities)).
			Msg("failed to upsert entity batch")
		return err
	}

	return nil
}

func (r *entityRepository) ReplaceAll(ctx context.Context, board models.Board) error {
	log := logger.FromContext(ctx)
	lists, cards := board.Flatten()

	err := r.withRetry(ctx, func() error {
		return r.inTx(ctx, func(tx *sql.Tx) error {
			if err := truncateBoard(ctx, r.DB, tx); err != nil {
				return err
			}
			for _, e := range append(lists, cards...) {
				if err := upsertEntity(ctx, r.DB, tx, e); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.ReplaceAll").
			Int("lists", len(lists)).
			Int("cards", len(cards)).
			Msg("failed to replace local board")
		return err
	}

	return nil
}

// Statement helpers shared with the server repository. They take the runner
// explicitly so they work both inside and outside a transaction.

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEntity(ctx context.Context, db *DB, runner queryRower, kind models.EntityKind, id string) (models.Entity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return models.Entity{}, err
	}

	query, args, err := db.builder().
		Select(columnsFor(kind)...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var entity models.Entity
	err = db.withRetry(ctx, func() error {
		var scanErr error
		entity, scanErr = scanEntity(runner.QueryRowContext(ctx, query, args...), kind)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, fmt.Errorf("%w: %s %s", ErrEntityNotFound, kind, id)
	}
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return entity, nil
}

func upsertEntity(ctx context.Context, db *DB, runner execer, e models.Entity) error {
	table, err := tableFor(e.Kind)
	if err != nil {
		return err
	}
	values, err := entityValues(e)
	if err != nil {
		return err
	}

	columns := columnsFor(e.Kind)
	updates := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		updates = append(updates, c+" = excluded."+c)
	}

	query, args, err := db.builder().
		Insert(table).
		Columns(columns...).
		Values(values...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = runner.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func deleteEntity(ctx context.Context, db *DB, runner execer, kind models.EntityKind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	if kind == models.KindList {
		query, args, buildErr := db.builder().Delete(tableCards).Where(sq.Eq{"list_id": id}).ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}
		if _, err = runner.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	query, args, err := db.builder().Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = runner.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func truncateBoard(ctx context.Context, db *DB, runner execer) error {
	for _, table := range []string{tableCards, tableLists} {
		query, args, err := db.builder().Delete(table).ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = runner.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	return nil
}
