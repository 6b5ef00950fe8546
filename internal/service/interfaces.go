package service

import (
	"context"

	"github.com/MKhiriev/go-board-sync/models"
)

// BoardService is the remote authority's use case layer. It owns version
// assignment: creates start at version 1 and every accepted write increments
// the stored version by one.
type BoardService interface {
	GetBoard(ctx context.Context) (models.Board, error)

	Create(ctx context.Context, entity models.Entity) (models.Entity, error)
	Update(ctx context.Context, kind models.EntityKind, id string, patch models.EntityPatch) (models.Entity, error)
	Delete(ctx context.Context, kind models.EntityKind, id string) error
	Reorder(ctx context.Context, req models.ReorderRequest) error

	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}

// BoardServiceWrapper defines middleware composition for BoardService.
// Implementations wrap an existing BoardService to add behavior such as
// logging or validating.
type BoardServiceWrapper interface {
	Wrap(BoardService) BoardService // returns a decorated BoardService applying additional behavior
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
