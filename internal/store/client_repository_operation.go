package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/models"
)

const tableOperations = "operations"

var operationColumns = []string{"key", "type", "entity_id", "payload", "retry_count", "created_at"}

// operationPayload is the JSON body of an operations row. Identity and
// bookkeeping live in their own columns.
type operationPayload struct {
	Entity      *models.Entity          `json:"entity,omitempty"`
	Patch       *models.EntityPatch     `json:"patch,omitempty"`
	Reorder     []models.PositionUpdate `json:"reorder,omitempty"`
	BaseVersion *models.Entity          `json:"base_version,omitempty"`
}

// operationRepository is the SQLite-backed [OperationLog]. Keys come from
// the AUTOINCREMENT rowid so they are monotonic and never reused, even after
// the tail of the queue has been removed.
type operationRepository struct {
	*DB
	logger *logger.Logger
}

// NewOperationRepository constructs an [OperationLog] on top of db.
func NewOperationRepository(db *DB, logger *logger.Logger) OperationLog {
	return &operationRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *operationRepository) Append(ctx context.Context, op models.QueuedOperation) (int64, error) {
	log := logger.FromContext(ctx)

	payload, err := encodeOperationPayload(op)
	if err != nil {
		return 0, err
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now()
	}

	query, args, err := r.builder().
		Insert(tableOperations).
		Columns("type", "entity_id", "payload", "retry_count", "created_at").
		Values(string(op.Type), op.EntityID, payload, op.RetryCount, op.CreatedAt.UnixMilli()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var key int64
	err = r.withRetry(ctx, func() error {
		res, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		key, execErr = res.LastInsertId()
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.Append").
			Str("type", string(op.Type)).
			Str("entity_id", op.EntityID).
			Msg("failed to append operation")
		return 0, err
	}

	return key, nil
}

func (r *operationRepository) ReadAll(ctx context.Context) ([]models.QueuedOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder().
		Select(operationColumns...).
		From(tableOperations).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var ops []models.QueuedOperation
	err = r.withRetry(ctx, func() error {
		rows, queryErr := r.DB.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
		}
		defer rows.Close()

		ops = make([]models.QueuedOperation, 0, 16)
		for rows.Next() {
			op, scanErr := scanOperation(rows)
			if scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
			}
			ops = append(ops, op)
		}
		if rowsErr := rows.Err(); rowsErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.ReadAll").
			Msg("failed to read operation log")
		return nil, err
	}

	return ops, nil
}

func (r *operationRepository) Get(ctx context.Context, key int64) (models.QueuedOperation, error) {
	query, args, err := r.builder().
		Select(operationColumns...).
		From(tableOperations).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var op models.QueuedOperation
	err = r.withRetry(ctx, func() error {
		var scanErr error
		op, scanErr = scanOperation(r.DB.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueuedOperation{}, fmt.Errorf("%w: key %d", ErrOperationNotFound, key)
	}
	if err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return op, nil
}

func (r *operationRepository) Remove(ctx context.Context, key int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder().Delete(tableOperations).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.withRetry(ctx, func() error {
		if _, execErr := r.DB.ExecContext(ctx, query, args...); execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.Remove").
			Int64("key", key).
			Msg("failed to remove operation")
		return err
	}

	return nil
}

func (r *operationRepository) Replace(ctx context.Context, op models.QueuedOperation) error {
	log := logger.FromContext(ctx)

	payload, err := encodeOperationPayload(op)
	if err != nil {
		return err
	}

	query, args, err := r.builder().
		Update(tableOperations).
		Set("type", string(op.Type)).
		Set("entity_id", op.EntityID).
		Set("payload", payload).
		Set("retry_count", op.RetryCount).
		Where(sq.Eq{"key": op.Key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var affected int64
	err = r.withRetry(ctx, func() error {
		res, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.Replace").
			Int64("key", op.Key).
			Msg("failed to rewrite operation")
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: key %d", ErrOperationNotFound, op.Key)
	}

	return nil
}

func (r *operationRepository) Len(ctx context.Context) (int, error) {
	query, args, err := r.builder().Select("COUNT(*)").From(tableOperations).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	err = r.withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func encodeOperationPayload(op models.QueuedOperation) (string, error) {
	b, err := json.Marshal(operationPayload{
		Entity:      op.Entity,
		Patch:       op.Patch,
		Reorder:     op.Reorder,
		BaseVersion: op.BaseVersion,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}
	return string(b), nil
}

func scanOperation(row rowScanner) (models.QueuedOperation, error) {
	var (
		op        models.QueuedOperation
		opType    string
		payload   string
		createdAt int64
	)

	if err := row.Scan(&op.Key, &opType, &op.EntityID, &payload, &op.RetryCount, &createdAt); err != nil {
		return models.QueuedOperation{}, err
	}

	var p operationPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}

	op.Type = models.OperationType(opType)
	op.Entity = p.Entity
	op.Patch = p.Patch
	op.Reorder = p.Reorder
	op.BaseVersion = p.BaseVersion
	op.CreatedAt = time.UnixMilli(createdAt)
	return op, nil
}
