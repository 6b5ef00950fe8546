// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"slices"
	"time"
)

// EntityKind distinguishes the two kinds of board records.
type EntityKind string

const (
	// KindList is a board column.
	KindList EntityKind = "list"
	// KindCard is a card that lives inside a list.
	KindCard EntityKind = "card"
)

// Valid reports whether k is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	return k == KindList || k == KindCard
}

// Entity is a List or Card record. Both kinds share one shape; ListID is only
// meaningful for cards.
//
// Position is the list's order among lists, or the card's order inside its
// owning list. Version starts at 1 and is incremented by exactly one by the
// remote authority on every accepted write.
type Entity struct {
	Kind           EntityKind `json:"kind"`
	ID             string     `json:"id"`
	ListID         string     `json:"list_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Position       int        `json:"position"`
	Version        int64      `json:"version"`
	LastModifiedAt int64      `json:"lastModifiedAt"`
}

// NewList builds a fresh list with version 1.
func NewList(id, title string, position int) Entity {
	return Entity{
		Kind:           KindList,
		ID:             id,
		Title:          title,
		Position:       position,
		Version:        1,
		LastModifiedAt: NowMillis(),
	}
}

// NewCard builds a fresh card with version 1.
func NewCard(id, listID, title, description string, tags []string, position int) Entity {
	return Entity{
		Kind:           KindCard,
		ID:             id,
		ListID:         listID,
		Title:          title,
		Description:    description,
		Tags:           slices.Clone(tags),
		Position:       position,
		Version:        1,
		LastModifiedAt: NowMillis(),
	}
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	e.Tags = slices.Clone(e.Tags)
	return e
}

// Equal compares every field of two entities, metadata included.
func (e Entity) Equal(other Entity) bool {
	if e.Kind != other.Kind || e.ID != other.ID || e.Version != other.Version ||
		e.LastModifiedAt != other.LastModifiedAt {
		return false
	}
	for _, f := range MergeableFields {
		if !f.Equal(e, other) {
			return false
		}
	}
	return true
}

// NowMillis returns the current time as unix milliseconds, the unit used for
// LastModifiedAt on the wire.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// EntityField describes one mutable field of an [Entity]. Identity, version
// and timestamps are metadata and are never listed here.
type EntityField struct {
	Name  string
	Equal func(a, b Entity) bool
	Copy  func(dst *Entity, src Entity)
}

// MergeableFields lists every mutable field that takes part in three-way
// merge and patch building.
var MergeableFields = []EntityField{
	{
		Name:  "title",
		Equal: func(a, b Entity) bool { return a.Title == b.Title },
		Copy:  func(dst *Entity, src Entity) { dst.Title = src.Title },
	},
	{
		Name:  "description",
		Equal: func(a, b Entity) bool { return a.Description == b.Description },
		Copy:  func(dst *Entity, src Entity) { dst.Description = src.Description },
	},
	{
		Name:  "tags",
		Equal: func(a, b Entity) bool { return slices.Equal(a.Tags, b.Tags) },
		Copy:  func(dst *Entity, src Entity) { dst.Tags = slices.Clone(src.Tags) },
	},
	{
		Name:  "list_id",
		Equal: func(a, b Entity) bool { return a.ListID == b.ListID },
		Copy:  func(dst *Entity, src Entity) { dst.ListID = src.ListID },
	},
	{
		Name:  "position",
		Equal: func(a, b Entity) bool { return a.Position == b.Position },
		Copy:  func(dst *Entity, src Entity) { dst.Position = src.Position },
	},
}

// EntityPatch is a partial update of an entity. Nil fields are left untouched.
// Version is the server version the update was based on and is what the
// remote authority checks for optimistic concurrency.
type EntityPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	ListID      *string   `json:"list_id,omitempty"`
	Position    *int      `json:"position,omitempty"`
	Version     int64     `json:"version,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EntityPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Tags == nil && p.ListID == nil && p.Position == nil
}

// Apply returns a copy of e with the patch fields written over it. Version and
// LastModifiedAt are not touched.
func (p EntityPatch) Apply(e Entity) Entity {
	out := e.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.ListID != nil {
		out.ListID = *p.ListID
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	return out
}

// PatchFromEntity builds a patch carrying every mutable field of e, used when
// a merged entity replaces the payload of a queued update.
func PatchFromEntity(e Entity, version int64) EntityPatch {
	title := e.Title
	description := e.Description
	tags := slices.Clone(e.Tags)
	position := e.Position

	p := EntityPatch{
		Title:       &title,
		Description: &description,
		Tags:        &tags,
		Position:    &position,
		Version:     version,
	}
	if e.Kind == KindCard {
		listID := e.ListID
		p.ListID = &listID
	}
	return p
}

// PositionUpdate is one element of a reorder batch.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	ListID   string `json:"list_id,omitempty"`
	Version  int64  `json:"version,omitempty"`
}
