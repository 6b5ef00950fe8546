package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidKind          = errors.New("invalid entity kind")
	ErrInvalidID            = errors.New("invalid entity id")
	ErrEmptyTitle           = errors.New("title is required")
	ErrTitleTooLong         = errors.New("title is too long")
	ErrDescriptionTooLong   = errors.New("description is too long")
	ErrMissingListID        = errors.New("card must belong to a list")
	ErrInvalidPosition      = errors.New("position cannot be negative")
	ErrInvalidVersion       = errors.New("invalid version")
	ErrNoFieldsToUpdate     = errors.New("at least one field must be provided for update")
	ErrEmptyReorder         = errors.New("reorder batch cannot be empty")
	ErrDuplicateReorderItem = errors.New("reorder batch lists an entity twice")
	ErrInvalidFailureRate   = errors.New("failure rate must be within [0, 1]")
	ErrInvalidLatency       = errors.New("latency cannot be negative")
)
