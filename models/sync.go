// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Conflict is an irreconcilable version conflict that blocks the queue until
// the caller resolves it.
type Conflict struct {
	// ID is the key of the blocking operation in the operation log.
	ID            int64         `json:"id"`
	OperationType OperationType `json:"operation_type"`
	LocalEntity   Entity        `json:"local_entity"`
	ServerEntity  Entity        `json:"server_entity"`
	// Fields lists the fields both sides changed to different values. Empty
	// when the conflict was escalated without a merge attempt.
	Fields []string `json:"fields,omitempty"`
}

// Resolution is the caller's choice for a blocking conflict.
type Resolution string

const (
	// KeepLocal re-sends the local change against the server's current version.
	KeepLocal Resolution = "local"
	// KeepRemote discards the local change and adopts the server state.
	KeepRemote Resolution = "server"
)

// SyncError reports an operation the remote authority permanently rejected.
// The operation has already been dropped from the queue.
type SyncError struct {
	OperationKey  int64         `json:"operation_key"`
	OperationType OperationType `json:"operation_type"`
	EntityID      string        `json:"entity_id"`
	Err           error         `json:"-"`
}

// Error implements error.
func (e SyncError) Error() string {
	if e.Err == nil {
		return string(e.OperationType) + " " + e.EntityID + ": rejected"
	}
	return string(e.OperationType) + " " + e.EntityID + ": " + e.Err.Error()
}

// Unwrap returns the underlying rejection.
func (e SyncError) Unwrap() error {
	return e.Err
}

// EventType tags a [SyncEvent].
type EventType int

const (
	EventConflict EventType = iota + 1
	EventSyncError
)

// SyncEvent is one element of the stream the sync processor publishes for
// the UI. Exactly one of Conflict and Error is set, matching Type.
type SyncEvent struct {
	Type     EventType
	Conflict *Conflict
	Error    *SyncError
}

// SyncStatus is a snapshot of the observable sync state.
type SyncStatus struct {
	Online   bool
	Syncing  bool
	Pending  int
	Conflict *Conflict
}
