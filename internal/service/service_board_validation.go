package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-board-sync/internal/validators"
	"github.com/MKhiriev/go-board-sync/models"
)

type BoardValidationService struct {
	inner     BoardService
	validator validators.Validator
}

func NewBoardValidationService() BoardServiceWrapper {
	return &BoardValidationService{
		validator: validators.NewEntityValidator(),
	}
}

func (v *BoardValidationService) GetBoard(ctx context.Context) (models.Board, error) {
	return v.inner.GetBoard(ctx)
}

func (v *BoardValidationService) Create(ctx context.Context, entity models.Entity) (models.Entity, error) {
	// version and lastModifiedAt are assigned by the server, so they are not
	// checked here
	err := v.validator.Validate(ctx, entity,
		validators.FieldKind,
		validators.FieldID,
		validators.FieldTitle,
		validators.FieldDescription,
		validators.FieldListID,
		validators.FieldPosition,
	)
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Create(ctx, entity)
}

func (v *BoardValidationService) Update(ctx context.Context, kind models.EntityKind, id string, patch models.EntityPatch) (models.Entity, error) {
	if !kind.Valid() {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidKind)
	}
	if err := v.validator.Validate(ctx, models.Entity{Kind: kind, ID: id}, validators.FieldID); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := v.validator.Validate(ctx, patch, validators.PatchKind(kind)); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Update(ctx, kind, id, patch)
}

func (v *BoardValidationService) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	if err := v.validator.Validate(ctx, models.Entity{Kind: kind, ID: id}, validators.FieldKind, validators.FieldID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Delete(ctx, kind, id)
}

func (v *BoardValidationService) Reorder(ctx context.Context, req models.ReorderRequest) error {
	if err := v.validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Reorder(ctx, req)
}

func (v *BoardValidationService) Reset(ctx context.Context) error {
	return v.inner.Reset(ctx)
}

func (v *BoardValidationService) Ping(ctx context.Context) error {
	return v.inner.Ping(ctx)
}

func (v *BoardValidationService) Wrap(wrapper BoardService) BoardService {
	v.inner = wrapper
	return v
}
