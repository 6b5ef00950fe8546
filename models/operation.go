package models

import "time"

// OperationType is the tag of a queued mutation.
type OperationType string

const (
	OpCreateList   OperationType = "create_list"
	OpUpdateList   OperationType = "update_list"
	OpDeleteList   OperationType = "delete_list"
	OpCreateCard   OperationType = "create_card"
	OpUpdateCard   OperationType = "update_card"
	OpDeleteCard   OperationType = "delete_card"
	OpReorderLists OperationType = "reorder_lists"
	OpReorderCards OperationType = "reorder_cards"
)

// Kind returns the entity kind the operation targets.
func (t OperationType) Kind() EntityKind {
	switch t {
	case OpCreateCard, OpUpdateCard, OpDeleteCard, OpReorderCards:
		return KindCard
	default:
		return KindList
	}
}

// IsCreate reports whether t creates an entity.
func (t OperationType) IsCreate() bool { return t == OpCreateList || t == OpCreateCard }

// IsUpdate reports whether t is a partial update of one entity.
func (t OperationType) IsUpdate() bool { return t == OpUpdateList || t == OpUpdateCard }

// IsDelete reports whether t removes an entity.
func (t OperationType) IsDelete() bool { return t == OpDeleteList || t == OpDeleteCard }

// IsReorder reports whether t is a batched position change.
func (t OperationType) IsReorder() bool { return t == OpReorderLists || t == OpReorderCards }

// QueuedOperation is a mutation that was applied locally but is not yet
// confirmed by the remote authority.
//
// Key is assigned by the operation log on append. It is monotonic, defines the
// queue position, and is the handle used to resolve a conflict.
//
// Exactly one payload field is set depending on Type: Entity for creates,
// Patch for updates, Reorder for reorders. Deletes carry only EntityID.
// BaseVersion is the entity as it was right before the mutation was applied
// locally; it is nil for creates.
type QueuedOperation struct {
	Key         int64            `json:"key"`
	Type        OperationType    `json:"type"`
	EntityID    string           `json:"entity_id,omitempty"`
	Entity      *Entity          `json:"entity,omitempty"`
	Patch       *EntityPatch     `json:"patch,omitempty"`
	Reorder     []PositionUpdate `json:"reorder,omitempty"`
	BaseVersion *Entity          `json:"base_version,omitempty"`
	RetryCount  int              `json:"retry_count"`
	CreatedAt   time.Time        `json:"created_at"`
}

// LocalEntity reconstructs the entity the operation wants the server to hold.
// For updates it is the base with the patch applied; for creates the entity
// itself. ok is false when nothing can be reconstructed.
func (op QueuedOperation) LocalEntity() (Entity, bool) {
	switch {
	case op.Entity != nil:
		return op.Entity.Clone(), true
	case op.Patch != nil && op.BaseVersion != nil:
		return op.Patch.Apply(*op.BaseVersion), true
	case op.BaseVersion != nil:
		return op.BaseVersion.Clone(), true
	}
	return Entity{}, false
}
