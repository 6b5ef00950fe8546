package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/models"
)

// boardRepository is the [BoardRepository] of the remote authority. It runs
// on PostgreSQL or SQLite; the dialect only changes placeholders and the
// error classifier.
type boardRepository struct {
	*DB
	logger *logger.Logger
}

// NewBoardRepository constructs a [BoardRepository] backed by db.
func NewBoardRepository(db *DB, logger *logger.Logger) BoardRepository {
	return &boardRepository{
		DB:     db,
		logger: logger,
	}
}

func (b *boardRepository) GetBoard(ctx context.Context) (models.Board, error) {
	log := logger.FromContext(ctx)

	lists, err := b.selectAll(ctx, models.KindList)
	if err != nil {
		log.Err(err).Str("func", "boardRepository.GetBoard").Msg("failed to read lists")
		return models.Board{}, err
	}
	cards, err := b.selectAll(ctx, models.KindCard)
	if err != nil {
		log.Err(err).Str("func", "boardRepository.GetBoard").Msg("failed to read cards")
		return models.Board{}, err
	}

	return models.BuildBoard(lists, cards), nil
}

func (b *boardRepository) Create(ctx context.Context, e models.Entity) (models.Entity, error) {
	log := logger.FromContext(ctx)

	table, err := tableFor(e.Kind)
	if err != nil {
		return models.Entity{}, err
	}
	values, err := entityValues(e)
	if err != nil {
		return models.Entity{}, err
	}

	query, args, err := b.builder().
		Insert(table).
		Columns(columnsFor(e.Kind)...).
		Values(values...).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = b.withRetry(ctx, func() error {
		if _, execErr := b.DB.ExecContext(ctx, query, args...); execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "boardRepository.Create").
			Str("kind", string(e.Kind)).
			Str("id", e.ID).
			Msg("failed to insert entity")
		return models.Entity{}, err
	}

	return getEntity(ctx, b.DB, b.DB.DB, e.Kind, e.ID)
}

func (b *boardRepository) Update(ctx context.Context, kind models.EntityKind, id string, patch models.EntityPatch) (models.Entity, error) {
	log := logger.FromContext(ctx)

	current, err := getEntity(ctx, b.DB, b.DB.DB, kind, id)
	if err != nil {
		return models.Entity{}, err
	}
	if patch.Version > 0 && patch.Version != current.Version {
		return models.Entity{}, &VersionConflictError{Current: current}
	}

	next := patch.Apply(current)
	next.Kind = kind
	next.ID = id
	next.Version = current.Version + 1
	next.LastModifiedAt = models.NowMillis()

	affected, err := b.conditionalUpdate(ctx, b.DB.DB, next, current.Version)
	if err != nil {
		log.Err(err).
			Str("func", "boardRepository.Update").
			Str("kind", string(kind)).
			Str("id", id).
			Msg("failed to update entity")
		return models.Entity{}, err
	}

	if affected == 0 {
		// lost a race: tell a concurrent delete apart from a concurrent write
		latest, getErr := getEntity(ctx, b.DB, b.DB.DB, kind, id)
		if getErr != nil {
			return models.Entity{}, getErr
		}
		return models.Entity{}, &VersionConflictError{Current: latest}
	}

	return next, nil
}

func (b *boardRepository) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	err := b.withRetry(ctx, func() error {
		return b.inTx(ctx, func(tx *sql.Tx) error {
			return deleteEntity(ctx, b.DB, tx, kind, id)
		})
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "boardRepository.Delete").
			Str("kind", string(kind)).
			Str("id", id).
			Msg("failed to delete entity")
		return err
	}
	return nil
}

func (b *boardRepository) Reorder(ctx context.Context, kind models.EntityKind, updates []models.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	now := models.NowMillis()

	err := b.withRetry(ctx, func() error {
		return b.inTx(ctx, func(tx *sql.Tx) error {
			for _, u := range updates {
				current, err := getEntity(ctx, b.DB, tx, kind, u.ID)
				if err != nil {
					return err
				}
				if u.Version > 0 && u.Version != current.Version {
					return &VersionConflictError{Current: current}
				}

				next := current.Clone()
				next.Position = u.Position
				if kind == models.KindCard && u.ListID != "" {
					next.ListID = u.ListID
				}
				next.Version = current.Version + 1
				next.LastModifiedAt = now

				affected, err := b.conditionalUpdate(ctx, tx, next, current.Version)
				if err != nil {
					return err
				}
				if affected == 0 {
					return &VersionConflictError{Current: current}
				}
			}
			return nil
		})
	})
	if err != nil && !errors.Is(err, ErrVersionConflict) {
		logger.FromContext(ctx).Err(err).
			Str("func", "boardRepository.Reorder").
			Str("kind", string(kind)).
			Int("count", len(updates)).
			Msg("failed to apply reorder batch")
	}
	return err
}

func (b *boardRepository) Reset(ctx context.Context) error {
	return b.withRetry(ctx, func() error {
		return b.inTx(ctx, func(tx *sql.Tx) error {
			return truncateBoard(ctx, b.DB, tx)
		})
	})
}

func (b *boardRepository) Ping(ctx context.Context) error {
	return b.DB.PingContext(ctx)
}

func (b *boardRepository) selectAll(ctx context.Context, kind models.EntityKind) ([]models.Entity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := b.builder().
		Select(columnsFor(kind)...).
		From(table).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var entities []models.Entity
	err = b.withRetry(ctx, func() error {
		rows, queryErr := b.DB.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
		}
		defer rows.Close()

		entities, queryErr = scanEntities(rows, kind)
		return queryErr
	})
	return entities, err
}

// conditionalUpdate writes next only if the stored version still equals
// expected. It returns the number of affected rows.
func (b *boardRepository) conditionalUpdate(ctx context.Context, runner execer, next models.Entity, expected int64) (int64, error) {
	table, err := tableFor(next.Kind)
	if err != nil {
		return 0, err
	}
	tags, err := encodeTags(next.Tags)
	if err != nil {
		return 0, err
	}

	stmt := b.builder().
		Update(table).
		Set("title", next.Title).
		Set("description", next.Description).
		Set("tags", tags).
		Set("position", next.Position).
		Set("version", next.Version).
		Set("last_modified_at", next.LastModifiedAt)
	if next.Kind == models.KindCard {
		stmt = stmt.Set("list_id", next.ListID)
	}

	query, args, err := stmt.Where(sq.Eq{"id": next.ID, "version": expected}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var affected int64
	err = b.withRetry(ctx, func() error {
		res, execErr := runner.ExecContext(ctx, query, args...)
		if execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	return affected, err
}
