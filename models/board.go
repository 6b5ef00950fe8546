package models

import "sort"

// Column is a list together with its cards, as rendered on the board.
type Column struct {
	Entity
	Cards []Entity `json:"cards"`
}

// Board is the whole board: lists ordered by position, each with its cards
// ordered by position.
type Board struct {
	Columns []Column `json:"columns"`
}

// BuildBoard assembles a sorted [Board] from flat lists and cards. Cards whose
// list is missing are skipped.
func BuildBoard(lists, cards []Entity) Board {
	byList := make(map[string][]Entity, len(lists))
	for _, c := range cards {
		byList[c.ListID] = append(byList[c.ListID], c.Clone())
	}

	sorted := make([]Entity, 0, len(lists))
	for _, l := range lists {
		sorted = append(sorted, l.Clone())
	}
	SortByPosition(sorted)

	board := Board{Columns: make([]Column, 0, len(sorted))}
	for _, l := range sorted {
		listCards := byList[l.ID]
		SortByPosition(listCards)
		if listCards == nil {
			listCards = []Entity{}
		}
		board.Columns = append(board.Columns, Column{Entity: l, Cards: listCards})
	}
	return board
}

// Flatten splits the board back into lists and cards.
func (b Board) Flatten() (lists, cards []Entity) {
	lists = make([]Entity, 0, len(b.Columns))
	for _, col := range b.Columns {
		l := col.Entity.Clone()
		l.Kind = KindList
		lists = append(lists, l)
		for _, c := range col.Cards {
			c = c.Clone()
			c.Kind = KindCard
			if c.ListID == "" {
				c.ListID = l.ID
			}
			cards = append(cards, c)
		}
	}
	return lists, cards
}

// SortByPosition orders entities by position, then id for a stable result.
func SortByPosition(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Position != entities[j].Position {
			return entities[i].Position < entities[j].Position
		}
		return entities[i].ID < entities[j].ID
	})
}
