// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-board-sync/internal/adapter"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/models"
)

// DefaultMaxMergeRetries is used when the configured bound is not positive.
const DefaultMaxMergeRetries = 1

const eventBufferSize = 16

// syncProcessor implements [ClientSyncService].
//
// Only one drain loop runs at a time (processing flag) and it awaits every
// remote call before reading the next operation, so at most one request for
// the queue is in flight. A pending conflict blocks the queue until
// ResolveConflict is called; it lives in memory only, so after a restart the
// blocked operation is simply sent again and the conflict re-emitted.
type syncProcessor struct {
	operations      store.OperationLog
	board           ClientBoardService
	remote          adapter.RemoteAuthority
	trigger         *syncTrigger
	maxMergeRetries int
	logger          *logger.Logger

	processing atomic.Bool
	online     atomic.Bool

	mu       sync.Mutex
	conflict *models.Conflict

	subsMu  sync.Mutex
	subs    map[int]chan models.SyncEvent
	nextSub int
}

func newSyncProcessor(operations store.OperationLog, board ClientBoardService, remote adapter.RemoteAuthority,
	trigger *syncTrigger, maxMergeRetries int, logger *logger.Logger) *syncProcessor {
	if maxMergeRetries <= 0 {
		maxMergeRetries = DefaultMaxMergeRetries
	}
	return &syncProcessor{
		operations:      operations,
		board:           board,
		remote:          remote,
		trigger:         trigger,
		maxMergeRetries: maxMergeRetries,
		logger:          logger,
		subs:            make(map[int]chan models.SyncEvent),
	}
}

func (p *syncProcessor) Drain(ctx context.Context) error {
	if p.pendingConflict() != nil {
		return nil
	}
	if !p.processing.CompareAndSwap(false, true) {
		return nil
	}
	defer p.processing.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.pendingConflict() != nil {
			return nil
		}

		// the head is re-read every time so operations appended mid-drain
		// are picked up in order
		ops, err := p.operations.ReadAll(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadingQueue, err)
		}
		if len(ops) == 0 {
			return nil
		}

		stop, err := p.process(ctx, ops[0])
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// process sends one operation, retrying it after a successful auto-merge.
// stop reports that the drain must end (offline or blocked by a conflict).
func (p *syncProcessor) process(ctx context.Context, op models.QueuedOperation) (stop bool, err error) {
	log := logger.FromContext(ctx)

	for {
		echoed, hasEcho, sendErr := p.send(ctx, op)

		var conflictErr *adapter.ConflictError
		switch {
		case sendErr == nil:
			p.SetOnline(true)
			return false, p.complete(ctx, op, echoed, hasEcho)

		case errors.Is(sendErr, adapter.ErrNetworkUnavailable):
			p.online.Store(false)
			log.Info().
				Str("func", "syncProcessor.process").
				Int64("key", op.Key).
				Str("type", string(op.Type)).
				Msg("remote authority unreachable, drain paused")
			return true, nil

		case errors.As(sendErr, &conflictErr):
			p.SetOnline(true)
			server := conflictErr.Server.Clone()
			if server.Kind == "" {
				server.Kind = op.Type.Kind()
			}

			next, retry, reconcileErr := p.reconcile(ctx, op, server)
			if reconcileErr != nil {
				return true, reconcileErr
			}
			if !retry {
				return true, nil
			}
			op = next

		default:
			p.SetOnline(true)
			return false, p.reject(ctx, op, sendErr)
		}
	}
}

// send maps op to its remote call. hasEcho is true when the authority
// returned the stored entity.
func (p *syncProcessor) send(ctx context.Context, op models.QueuedOperation) (models.Entity, bool, error) {
	kind := op.Type.Kind()

	switch {
	case op.Type.IsCreate():
		if op.Entity == nil {
			return models.Entity{}, false, ErrMalformedOperation
		}
		echoed, err := p.remote.CreateEntity(ctx, *op.Entity)
		return echoed, err == nil, err

	case op.Type.IsUpdate():
		if op.Patch == nil {
			return models.Entity{}, false, ErrMalformedOperation
		}
		echoed, err := p.remote.UpdateEntity(ctx, kind, op.EntityID, *op.Patch)
		return echoed, err == nil, err

	case op.Type.IsDelete():
		return models.Entity{}, false, p.remote.DeleteEntity(ctx, kind, op.EntityID)

	case op.Type.IsReorder():
		if len(op.Reorder) == 0 {
			return models.Entity{}, false, ErrMalformedOperation
		}
		return models.Entity{}, false, p.remote.Reorder(ctx, kind, op.Reorder)
	}

	return models.Entity{}, false, fmt.Errorf("%w: type %q", ErrMalformedOperation, op.Type)
}

func (p *syncProcessor) complete(ctx context.Context, op models.QueuedOperation, echoed models.Entity, hasEcho bool) error {
	if err := p.operations.Remove(ctx, op.Key); err != nil {
		return fmt.Errorf("%w: remove operation %d: %w", ErrLocalPersistence, op.Key, err)
	}
	if !hasEcho || echoed.ID == "" {
		return nil
	}
	return p.board.Acknowledge(ctx, op.Type.Kind(), echoed.ID, echoed.Version)
}

func (p *syncProcessor) reject(ctx context.Context, op models.QueuedOperation, cause error) error {
	logger.FromContext(ctx).Warn().
		Err(cause).
		Str("func", "syncProcessor.reject").
		Int64("key", op.Key).
		Str("type", string(op.Type)).
		Str("entity_id", op.EntityID).
		Msg("operation permanently rejected, dropped from queue")

	if err := p.operations.Remove(ctx, op.Key); err != nil {
		return fmt.Errorf("%w: remove operation %d: %w", ErrLocalPersistence, op.Key, err)
	}

	p.publish(models.SyncEvent{
		Type: models.EventSyncError,
		Error: &models.SyncError{
			OperationKey:  op.Key,
			OperationType: op.Type,
			EntityID:      op.EntityID,
			Err:           cause,
		},
	})
	return p.rollback(ctx, op, cause)
}

// rollback undoes the optimistic change of a rejected operation. A create is
// discarded, as is anything the authority reports missing. An update or delete
// restores its base unless a later queued operation still targets the entity
// or the entity has nowhere to go back to. Reorders are left to the next
// Refresh.
func (p *syncProcessor) rollback(ctx context.Context, op models.QueuedOperation, cause error) error {
	if op.Type.IsReorder() || op.EntityID == "" {
		return nil
	}
	kind := op.Type.Kind()
	if op.Type.IsCreate() || errors.Is(cause, adapter.ErrNotFound) {
		return p.board.Discard(ctx, kind, op.EntityID)
	}
	if op.BaseVersion == nil {
		return nil
	}

	rest, err := p.operations.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadingQueue, err)
	}
	if slices.ContainsFunc(rest, func(next models.QueuedOperation) bool { return touches(next, op.EntityID) }) {
		return nil
	}

	base := op.BaseVersion.Clone()
	base.Kind = kind
	if op.Type.IsUpdate() {
		if _, ok := p.board.Get(kind, base.ID); !ok {
			return nil
		}
	}
	if kind == models.KindCard {
		if _, ok := p.board.Get(models.KindList, base.ListID); !ok {
			return nil
		}
	}
	return p.board.Absorb(ctx, base)
}

func touches(op models.QueuedOperation, id string) bool {
	if op.EntityID == id {
		return true
	}
	return slices.ContainsFunc(op.Reorder, func(pair models.PositionUpdate) bool { return pair.ID == id })
}

// reconcile handles a version conflict. It either rewrites op with the
// merged fields and asks for a retry, or escalates to a pending conflict.
func (p *syncProcessor) reconcile(ctx context.Context, op models.QueuedOperation, server models.Entity) (models.QueuedOperation, bool, error) {
	log := logger.FromContext(ctx)

	if !op.Type.IsUpdate() || op.Patch == nil {
		p.escalate(ctx, op, server, nil)
		return op, false, nil
	}
	if op.RetryCount >= p.maxMergeRetries {
		p.escalate(ctx, op, server, nil)
		return op, false, nil
	}

	local, _ := op.LocalEntity()
	merged, err := Merge(op.BaseVersion, local, server)
	if err != nil {
		var mergeErr *MergeConflictError
		var fields []string
		if errors.As(err, &mergeErr) {
			fields = mergeErr.Fields
		}
		p.escalate(ctx, op, server, fields)
		return op, false, nil
	}

	merged.Version = server.Version + 1
	merged.LastModifiedAt = models.NowMillis()
	if err = p.board.Absorb(ctx, merged); err != nil {
		return op, false, err
	}

	patch := models.PatchFromEntity(merged, server.Version)
	base := server.Clone()
	op.Patch = &patch
	op.BaseVersion = &base
	op.RetryCount++
	if err = p.operations.Replace(ctx, op); err != nil {
		return op, false, fmt.Errorf("%w: rewrite operation %d: %w", ErrLocalPersistence, op.Key, err)
	}

	log.Info().
		Str("func", "syncProcessor.reconcile").
		Int64("key", op.Key).
		Str("entity_id", op.EntityID).
		Int64("server_version", server.Version).
		Int("retry", op.RetryCount).
		Msg("version conflict auto-merged, retrying")
	return op, true, nil
}

func (p *syncProcessor) escalate(ctx context.Context, op models.QueuedOperation, server models.Entity, fields []string) {
	conflict := &models.Conflict{
		ID:            op.Key,
		OperationType: op.Type,
		LocalEntity:   p.conflictLocal(op, server),
		ServerEntity:  server,
		Fields:        fields,
	}

	p.mu.Lock()
	p.conflict = conflict
	p.mu.Unlock()

	logger.FromContext(ctx).Warn().
		Str("func", "syncProcessor.escalate").
		Int64("key", op.Key).
		Str("type", string(op.Type)).
		Str("entity_id", server.ID).
		Strs("fields", fields).
		Msg("conflict needs manual resolution, queue blocked")

	copied := *conflict
	p.publish(models.SyncEvent{Type: models.EventConflict, Conflict: &copied})
}

// conflictLocal reconstructs what the client wanted the server to hold.
func (p *syncProcessor) conflictLocal(op models.QueuedOperation, server models.Entity) models.Entity {
	if op.Type.IsReorder() {
		local, ok := p.board.Get(server.Kind, server.ID)
		if !ok {
			local = server.Clone()
		}
		for _, pair := range op.Reorder {
			if pair.ID != server.ID {
				continue
			}
			local.Position = pair.Position
			if pair.ListID != "" {
				local.ListID = pair.ListID
			}
		}
		return local
	}

	local, ok := op.LocalEntity()
	if !ok {
		return server.Clone()
	}
	if local.Kind == "" {
		local.Kind = op.Type.Kind()
	}
	return local
}

func (p *syncProcessor) ResolveConflict(ctx context.Context, id int64, resolution models.Resolution, server models.Entity) error {
	log := logger.FromContext(ctx)

	pending := p.pendingConflict()
	if pending == nil || pending.ID != id {
		return fmt.Errorf("%w: %d", ErrConflictNotFound, id)
	}
	if resolution != models.KeepLocal && resolution != models.KeepRemote {
		return fmt.Errorf("%w: %q", ErrUnknownResolution, resolution)
	}
	if server.ID == "" {
		server = pending.ServerEntity.Clone()
	}
	if server.Kind == "" {
		server.Kind = pending.ServerEntity.Kind
	}

	op, err := p.operations.Get(ctx, id)
	switch {
	case errors.Is(err, store.ErrOperationNotFound):
		log.Warn().
			Str("func", "syncProcessor.ResolveConflict").
			Int64("key", id).
			Msg("blocking operation already gone")
	case err != nil:
		return fmt.Errorf("%w: %w", ErrReadingQueue, err)
	case resolution == models.KeepRemote:
		if err = p.keepRemote(ctx, op, server); err != nil {
			return err
		}
	default:
		if err = p.keepLocal(ctx, op, server); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.conflict = nil
	p.mu.Unlock()

	log.Info().
		Str("func", "syncProcessor.ResolveConflict").
		Int64("key", id).
		Str("resolution", string(resolution)).
		Msg("conflict resolved, resuming drain")

	p.Trigger()
	return nil
}

func (p *syncProcessor) keepRemote(ctx context.Context, op models.QueuedOperation, server models.Entity) error {
	if err := p.board.Absorb(ctx, server); err != nil {
		return err
	}
	if err := p.operations.Remove(ctx, op.Key); err != nil {
		return fmt.Errorf("%w: remove operation %d: %w", ErrLocalPersistence, op.Key, err)
	}
	return nil
}

// keepLocal stamps the server version into op and moves it to the tail. The
// copy is appended before the original is removed.
func (p *syncProcessor) keepLocal(ctx context.Context, op models.QueuedOperation, server models.Entity) error {
	switch {
	case op.Type.IsUpdate() && op.Patch != nil:
		patch := *op.Patch
		patch.Version = server.Version
		base := server.Clone()
		op.Patch = &patch
		op.BaseVersion = &base
	case op.Type.IsReorder():
		pairs := make([]models.PositionUpdate, len(op.Reorder))
		copy(pairs, op.Reorder)
		for i := range pairs {
			if pairs[i].ID == server.ID {
				pairs[i].Version = server.Version
			}
		}
		op.Reorder = pairs
	}
	op.RetryCount = 0

	if err := p.board.Acknowledge(ctx, server.Kind, server.ID, server.Version+1); err != nil {
		return err
	}

	oldKey := op.Key
	op.Key = 0
	if _, err := p.operations.Append(ctx, op); err != nil {
		return fmt.Errorf("%w: re-append operation %d: %w", ErrLocalPersistence, oldKey, err)
	}
	if err := p.operations.Remove(ctx, oldKey); err != nil {
		return fmt.Errorf("%w: remove operation %d: %w", ErrLocalPersistence, oldKey, err)
	}
	return nil
}

func (p *syncProcessor) Refresh(ctx context.Context) error {
	if p.pendingConflict() != nil {
		return nil
	}
	if !p.processing.CompareAndSwap(false, true) {
		return nil
	}
	defer p.processing.Store(false)

	empty, err := p.queueIsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadingQueue, err)
	}
	if !empty {
		return nil
	}

	board, err := p.remote.GetBoard(ctx)
	if errors.Is(err, adapter.ErrNetworkUnavailable) {
		p.online.Store(false)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshingBoard, err)
	}
	p.SetOnline(true)

	replaced, err := p.board.ReplaceFromRemote(ctx, board, p.queueIsEmpty)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshingBoard, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "syncProcessor.Refresh").
		Bool("replaced", replaced).
		Int("lists", len(board.Columns)).
		Msg("board refreshed from remote")
	return nil
}

func (p *syncProcessor) queueIsEmpty(ctx context.Context) (bool, error) {
	n, err := p.operations.Len(ctx)
	if err != nil {
		return false, err
	}
	return n == 0 && p.pendingConflict() == nil, nil
}

func (p *syncProcessor) Status(ctx context.Context) models.SyncStatus {
	status := models.SyncStatus{
		Online:  p.online.Load(),
		Syncing: p.processing.Load(),
	}

	n, err := p.operations.Len(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncProcessor.Status").
			Msg("failed to count queued operations")
	}
	status.Pending = n

	if c := p.pendingConflict(); c != nil {
		copied := *c
		status.Conflict = &copied
	}
	return status
}

func (p *syncProcessor) SetOnline(online bool) {
	if was := p.online.Swap(online); !was && online {
		p.trigger.Fire()
	}
}

func (p *syncProcessor) Trigger() {
	p.trigger.Fire()
}

func (p *syncProcessor) Triggers() <-chan struct{} {
	return p.trigger.C()
}

func (p *syncProcessor) Subscribe() (<-chan models.SyncEvent, func()) {
	ch := make(chan models.SyncEvent, eventBufferSize)

	p.subsMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subsMu.Lock()
			delete(p.subs, id)
			close(ch)
			p.subsMu.Unlock()
		})
	}
}

func (p *syncProcessor) publish(event models.SyncEvent) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	for id, ch := range p.subs {
		select {
		case ch <- event:
		default:
			p.logger.Warn().
				Str("func", "syncProcessor.publish").
				Int("subscriber", id).
				Int("event", int(event.Type)).
				Msg("subscriber is not keeping up, event dropped")
		}
	}
}

func (p *syncProcessor) pendingConflict() *models.Conflict {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conflict
}
