package validators

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-board-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldKind targets the list/card discriminator.
	FieldKind = "kind"

	// FieldID targets the client-generated identifier.
	FieldID = "id"

	// FieldTitle targets the title; it must be non-empty and within the
	// kind's length limit.
	FieldTitle = "title"

	FieldDescription = "description"

	// FieldListID targets the owning list of a card. Lists ignore it.
	FieldListID = "list_id"

	FieldPosition = "position"
	FieldVersion  = "version"

	// FieldPatchFields requires a patch to change at least one field.
	FieldPatchFields = "patch_fields"
)

// Length limits applied to user-supplied text.
const (
	MaxListTitleLength   = 100
	MaxCardTitleLength   = 255
	MaxDescriptionLength = 5000
)

// EntityValidator checks lists, cards, patches, reorder batches and remote
// fault-injection settings.
type EntityValidator struct {
}

func NewEntityValidator() Validator {
	return &EntityValidator{}
}

func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entity:
		return v.validateEntity(ctx, value, fields...)
	case *models.Entity:
		return v.validateEntity(ctx, *value, fields...)

	case models.EntityPatch:
		return v.validatePatch(ctx, value, fields...)
	case *models.EntityPatch:
		return v.validatePatch(ctx, *value, fields...)

	case models.ReorderRequest:
		return v.validateReorder(ctx, value)
	case *models.ReorderRequest:
		return v.validateReorder(ctx, *value)

	case models.RemoteConfig:
		return v.validateRemoteConfig(value)
	case *models.RemoteConfig:
		return v.validateRemoteConfig(*value)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntityValidator) validateEntity(ctx context.Context, e models.Entity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKind, FieldID, FieldTitle, FieldDescription, FieldListID, FieldPosition, FieldVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldKind:
			if !e.Kind.Valid() {
				return ErrInvalidKind
			}
		case FieldID:
			if strings.TrimSpace(e.ID) == "" {
				return ErrInvalidID
			}
		case FieldTitle:
			if err := checkTitle(e.Kind, e.Title); err != nil {
				return err
			}
		case FieldDescription:
			if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
				return ErrDescriptionTooLong
			}
		case FieldListID:
			if e.Kind == models.KindCard && strings.TrimSpace(e.ListID) == "" {
				return ErrMissingListID
			}
		case FieldPosition:
			if e.Position < 0 {
				return ErrInvalidPosition
			}
		case FieldVersion:
			if e.Version < 0 {
				return ErrInvalidVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validatePatch checks only the fields the patch sets. Titles use the card
// limit unless a [PatchKind] selector is among fields.
func (v *EntityValidator) validatePatch(ctx context.Context, p models.EntityPatch, fields ...string) error {
	kind := models.KindCard
	checks := make([]string, 0, len(fields))
	for _, f := range fields {
		if k, ok := strings.CutPrefix(f, FieldKind+"="); ok {
			kind = models.EntityKind(k)
			continue
		}
		checks = append(checks, f)
	}
	if len(checks) == 0 {
		checks = []string{FieldPatchFields, FieldTitle, FieldDescription, FieldListID, FieldPosition, FieldVersion}
	}

	for _, f := range checks {
		switch f {
		case FieldPatchFields:
			if p.IsEmpty() {
				return ErrNoFieldsToUpdate
			}
		case FieldTitle:
			if p.Title != nil {
				if err := checkTitle(kind, *p.Title); err != nil {
					return err
				}
			}
		case FieldDescription:
			if p.Description != nil && utf8.RuneCountInString(*p.Description) > MaxDescriptionLength {
				return ErrDescriptionTooLong
			}
		case FieldListID:
			if p.ListID != nil && strings.TrimSpace(*p.ListID) == "" {
				return ErrMissingListID
			}
		case FieldPosition:
			if p.Position != nil && *p.Position < 0 {
				return ErrInvalidPosition
			}
		case FieldVersion:
			if p.Version < 0 {
				return ErrInvalidVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validateReorder(ctx context.Context, r models.ReorderRequest) error {
	if len(r.Lists) == 0 && len(r.Cards) == 0 {
		return ErrEmptyReorder
	}

	for name, batch := range map[string][]models.PositionUpdate{"lists": r.Lists, "cards": r.Cards} {
		seen := make(map[string]struct{}, len(batch))
		for i, u := range batch {
			if strings.TrimSpace(u.ID) == "" {
				return fmt.Errorf("validation error at %s[%d]: %w", name, i, ErrInvalidID)
			}
			if u.Position < 0 {
				return fmt.Errorf("validation error at %s[%d]: %w", name, i, ErrInvalidPosition)
			}
			if u.Version < 0 {
				return fmt.Errorf("validation error at %s[%d]: %w", name, i, ErrInvalidVersion)
			}
			if _, dup := seen[u.ID]; dup {
				return fmt.Errorf("validation error at %s[%d]: %w", name, i, ErrDuplicateReorderItem)
			}
			seen[u.ID] = struct{}{}
		}
	}

	return nil
}

func (v *EntityValidator) validateRemoteConfig(c models.RemoteConfig) error {
	if c.Latency != nil && *c.Latency < 0 {
		return ErrInvalidLatency
	}
	if c.FailureRate != nil && (*c.FailureRate < 0 || *c.FailureRate > 1) {
		return ErrInvalidFailureRate
	}
	return nil
}

func checkTitle(kind models.EntityKind, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}

	limit := MaxCardTitleLength
	if kind == models.KindList {
		limit = MaxListTitleLength
	}
	if utf8.RuneCountInString(title) > limit {
		return ErrTitleTooLong
	}
	return nil
}

// PatchKind returns the field selector that makes a patch validation use the
// title limit of kind.
func PatchKind(kind models.EntityKind) string {
	return FieldKind + "=" + string(kind)
}
