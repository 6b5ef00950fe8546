// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport used by the board client to reach
// the remote authority.
//
// The primary abstraction is [RemoteAuthority], which decouples the sync
// processor from HTTP. The package ships a REST implementation
// ([NewHTTPRemoteAuthority]).
//
// Responses are mapped by mapHTTPError so that callers can use [errors.Is]:
// [ErrNetworkUnavailable] for anything transient, [ErrVersionConflict] (a
// [*ConflictError] carrying the server entity) for 409, and [ErrBadRequest],
// [ErrNotFound] or [ErrUnexpectedStatus] for permanent rejections.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-board-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_authority_mock.go -package=mock

// RemoteAuthority is the server that owns the canonical board and the
// version counters.
type RemoteAuthority interface {
	// CreateEntity creates a list or card. The call is idempotent on id.
	CreateEntity(ctx context.Context, entity models.Entity) (models.Entity, error)

	// UpdateEntity applies a partial update. A positive patch.Version is
	// checked against the server version; a mismatch yields *ConflictError.
	UpdateEntity(ctx context.Context, kind models.EntityKind, id string, patch models.EntityPatch) (models.Entity, error)

	// DeleteEntity removes an entity. Deleting a missing id succeeds.
	DeleteEntity(ctx context.Context, kind models.EntityKind, id string) error

	// Reorder applies a batch of position changes atomically.
	Reorder(ctx context.Context, kind models.EntityKind, updates []models.PositionUpdate) error

	// GetBoard fetches the whole board.
	GetBoard(ctx context.Context) (models.Board, error)

	// Ping checks that the remote authority is reachable.
	Ping(ctx context.Context) error
}
