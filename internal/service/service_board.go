package service

import (
	"context"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/models"
)

type boardService struct {
	boardRepository store.BoardRepository

	logger *logger.Logger
}

func NewBoardService(boardRepository store.BoardRepository, logger *logger.Logger) BoardService {
	return &boardService{
		boardRepository: boardRepository,
		logger:          logger,
	}
}

func (b *boardService) GetBoard(ctx context.Context) (models.Board, error) {
	return b.boardRepository.GetBoard(ctx)
}

// Create stores a new entity with version 1. Creating an id that already
// exists returns the stored entity unchanged.
func (b *boardService) Create(ctx context.Context, entity models.Entity) (models.Entity, error) {
	entity = entity.Clone()
	entity.Version = 1
	entity.LastModifiedAt = models.NowMillis()
	if entity.Kind == models.KindList {
		entity.ListID = ""
	}

	return b.boardRepository.Create(ctx, entity)
}

func (b *boardService) Update(ctx context.Context, kind models.EntityKind, id string, patch models.EntityPatch) (models.Entity, error) {
	if kind == models.KindList {
		patch.ListID = nil
	}
	return b.boardRepository.Update(ctx, kind, id, patch)
}

func (b *boardService) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	return b.boardRepository.Delete(ctx, kind, id)
}

// Reorder applies list positions first, then card positions. Each batch is
// atomic on its own.
func (b *boardService) Reorder(ctx context.Context, req models.ReorderRequest) error {
	log := logger.FromContext(ctx)

	if len(req.Lists) > 0 {
		if err := b.boardRepository.Reorder(ctx, models.KindList, req.Lists); err != nil {
			log.Err(err).Str("func", "boardService.Reorder").Int("lists", len(req.Lists)).Msg("list reorder rejected")
			return err
		}
	}
	if len(req.Cards) > 0 {
		if err := b.boardRepository.Reorder(ctx, models.KindCard, req.Cards); err != nil {
			log.Err(err).Str("func", "boardService.Reorder").Int("cards", len(req.Cards)).Msg("card reorder rejected")
			return err
		}
	}
	return nil
}

func (b *boardService) Reset(ctx context.Context) error {
	return b.boardRepository.Reset(ctx)
}

func (b *boardService) Ping(ctx context.Context) error {
	return b.boardRepository.Ping(ctx)
}
