package models

// IntentType is the kind of user intent handed to the dispatcher.
type IntentType string

const (
	IntentAddList    IntentType = "add_list"
	IntentEditList   IntentType = "edit_list"
	IntentDeleteList IntentType = "delete_list"
	IntentAddCard    IntentType = "add_card"
	IntentEditCard   IntentType = "edit_card"
	IntentDeleteCard IntentType = "delete_card"
	IntentMoveList   IntentType = "move_list"
	IntentMoveCard   IntentType = "move_card"
)

// Intent is a discrete user action against the board.
//
// Field usage by type:
//   - AddList: Title
//   - AddCard: ListID, Title, Description, Tags
//   - EditList, EditCard: ID, Patch
//   - DeleteList, DeleteCard: ID
//   - MoveList: ID, ToIndex
//   - MoveCard: ID, ListID (destination list), ToIndex (-1 appends)
type Intent struct {
	Type        IntentType
	ID          string
	ListID      string
	Title       string
	Description string
	Tags        []string
	Patch       EntityPatch
	ToIndex     int
}
