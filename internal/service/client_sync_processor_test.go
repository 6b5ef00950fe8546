// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-board-sync/internal/adapter"
	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/mock"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/internal/validators"
	"github.com/MKhiriev/go-board-sync/models"
)

type syncFixture struct {
	ctx      context.Context
	storages *store.ClientStorages
	board    *dispatcher
	proc     *syncProcessor
	remote   *mock.MockRemoteAuthority
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	storages := newTestClientStorages(t)
	remote := mock.NewMockRemoteAuthority(ctrl)

	trigger := newSyncTrigger()
	board := newDispatcher(storages.Entities, storages.Operations, validators.NewEntityValidator(), &seqIDs{prefix: "new"}, trigger)
	proc := newSyncProcessor(storages.Operations, board, remote, trigger, DefaultMaxMergeRetries, logger.Nop())

	return &syncFixture{
		ctx:      context.Background(),
		storages: storages,
		board:    board,
		proc:     proc,
		remote:   remote,
	}
}

// seed кладёт в локальное хранилище уже синхронизированные сущности
func (f *syncFixture) seed(t *testing.T, entities ...models.Entity) {
	t.Helper()
	require.NoError(t, f.storages.Entities.BatchPut(f.ctx, entities))
	require.NoError(t, f.board.Load(f.ctx))
}

func (f *syncFixture) queue(t *testing.T) []models.QueuedOperation {
	t.Helper()
	ops, err := f.storages.Operations.ReadAll(f.ctx)
	require.NoError(t, err)
	return ops
}

func syncedCard() (models.Entity, models.Entity) {
	list := models.NewList("l1", "Todo", 0)
	list.LastModifiedAt = 1000
	card := models.NewCard("c1", "l1", "Original", "", nil, 0)
	card.LastModifiedAt = 1000
	return list, card
}

func nextEvent(t *testing.T, events <-chan models.SyncEvent) models.SyncEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	default:
		t.Fatal("expected an event")
		return models.SyncEvent{}
	}
}

func TestSyncProcessor_OrderingAfterReconnect(t *testing.T) {
	f := newSyncFixture(t)

	listID := mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Todo"})
	cardID := mustApply(t, f.board, models.Intent{Type: models.IntentAddCard, ListID: listID, Title: "a"})
	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: cardID, Patch: models.EntityPatch{Title: strPtr("b")}})

	// офлайн: первая же операция упирается в сеть
	f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).Return(models.Entity{}, adapter.ErrNetworkUnavailable)

	require.NoError(t, f.proc.Drain(f.ctx))
	assert.Len(t, f.queue(t), 3)
	assert.False(t, f.proc.Status(f.ctx).Online)

	var sent []string
	gomock.InOrder(
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.Entity) (models.Entity, error) {
				sent = append(sent, "create "+e.ID)
				return e, nil
			}),
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.Entity) (models.Entity, error) {
				sent = append(sent, "create "+e.ID)
				return e, nil
			}),
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, cardID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ models.EntityKind, id string, p models.EntityPatch) (models.Entity, error) {
				sent = append(sent, "update "+id)
				assert.Equal(t, int64(1), p.Version)
				e, _ := f.board.Get(models.KindCard, id)
				e.Version = 2
				return e, nil
			}),
	)

	f.proc.SetOnline(true)
	require.NoError(t, f.proc.Drain(f.ctx))

	assert.Equal(t, []string{"create " + listID, "create " + cardID, "update " + cardID}, sent)
	assert.Empty(t, f.queue(t))
	status := f.proc.Status(f.ctx)
	assert.True(t, status.Online)
	assert.Zero(t, status.Pending)

	card, _ := f.board.Get(models.KindCard, cardID)
	assert.Equal(t, int64(2), card.Version)
}

// inflightRemote records how many calls overlap.
type inflightRemote struct {
	current atomic.Int32
	max     atomic.Int32
	calls   atomic.Int32
}

func (r *inflightRemote) enter() func() {
	n := r.current.Add(1)
	for {
		m := r.max.Load()
		if n <= m || r.max.CompareAndSwap(m, n) {
			break
		}
	}
	r.calls.Add(1)
	time.Sleep(2 * time.Millisecond)
	return func() { r.current.Add(-1) }
}

func (r *inflightRemote) CreateEntity(_ context.Context, e models.Entity) (models.Entity, error) {
	defer r.enter()()
	return e, nil
}

func (r *inflightRemote) UpdateEntity(_ context.Context, _ models.EntityKind, _ string, _ models.EntityPatch) (models.Entity, error) {
	defer r.enter()()
	return models.Entity{}, nil
}

func (r *inflightRemote) DeleteEntity(context.Context, models.EntityKind, string) error {
	defer r.enter()()
	return nil
}

func (r *inflightRemote) Reorder(context.Context, models.EntityKind, []models.PositionUpdate) error {
	defer r.enter()()
	return nil
}

func (r *inflightRemote) GetBoard(context.Context) (models.Board, error) {
	defer r.enter()()
	return models.Board{}, nil
}

func (r *inflightRemote) Ping(context.Context) error { return nil }

func TestSyncProcessor_AtMostOneInFlight(t *testing.T) {
	storages := newTestClientStorages(t)
	remote := &inflightRemote{}
	trigger := newSyncTrigger()
	board := newDispatcher(storages.Entities, storages.Operations, validators.NewEntityValidator(), &seqIDs{prefix: "l"}, trigger)
	proc := newSyncProcessor(storages.Operations, board, remote, trigger, 1, logger.Nop())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		mustApply(t, board, models.Intent{Type: models.IntentAddList, Title: "list"})
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				assert.NoError(t, proc.Drain(ctx))
			}
		}()
	}
	wg.Wait()

	// добиваем то, что могло остаться после последнего no-op вызова
	require.NoError(t, proc.Drain(ctx))

	assert.Equal(t, int32(1), remote.max.Load())
	assert.Equal(t, int32(10), remote.calls.Load())
	n, err := storages.Operations.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// Scenario: both sides changed the title to different values.
func TestSyncProcessor_ConflictEscalatesAndBlocksQueue(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)

	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: "c1", Patch: models.EntityPatch{Title: strPtr("A")}})
	mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Behind"})

	serverItem := card.Clone()
	serverItem.Version = 2
	serverItem.Title = "B"
	serverItem.Tags = []string{"x"}

	events, unsubscribe := f.proc.Subscribe()
	defer unsubscribe()

	f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
		Return(models.Entity{}, &adapter.ConflictError{Server: serverItem})
	// CreateEntity для второй операции не ожидается: очередь должна стоять

	require.NoError(t, f.proc.Drain(f.ctx))

	ev := nextEvent(t, events)
	require.Equal(t, models.EventConflict, ev.Type)
	require.NotNil(t, ev.Conflict)
	assert.Equal(t, "A", ev.Conflict.LocalEntity.Title)
	assert.Equal(t, "B", ev.Conflict.ServerEntity.Title)
	assert.Equal(t, []string{"title"}, ev.Conflict.Fields)
	assert.Equal(t, models.OpUpdateCard, ev.Conflict.OperationType)

	ops := f.queue(t)
	require.Len(t, ops, 2)
	assert.Equal(t, ops[0].Key, ev.Conflict.ID)

	status := f.proc.Status(f.ctx)
	require.NotNil(t, status.Conflict)
	assert.Equal(t, 2, status.Pending)

	// пока конфликт висит, drain ничего не отправляет
	require.NoError(t, f.proc.Drain(f.ctx))
	assert.Len(t, f.queue(t), 2)
}

// Scenario: local changed tags only, server changed title only.
func TestSyncProcessor_AutoMergeRetriesOnce(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)

	mustApply(t, f.board, models.Intent{
		Type:  models.IntentEditCard,
		ID:    "c1",
		Patch: models.EntityPatch{Tags: &[]string{"x", "y"}},
	})

	serverItem := card.Clone()
	serverItem.Version = 2
	serverItem.Title = "Server title"

	var retried models.EntityPatch
	gomock.InOrder(
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
			Return(models.Entity{}, &adapter.ConflictError{Server: serverItem}),
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ models.EntityKind, _ string, p models.EntityPatch) (models.Entity, error) {
				retried = p
				accepted := p.Apply(serverItem)
				accepted.Version = 3
				return accepted, nil
			}),
	)

	require.NoError(t, f.proc.Drain(f.ctx))

	assert.Equal(t, int64(2), retried.Version, "retry is sent against the server version")
	require.NotNil(t, retried.Title)
	assert.Equal(t, "Server title", *retried.Title)
	require.NotNil(t, retried.Tags)
	assert.Equal(t, []string{"x", "y"}, *retried.Tags)

	assert.Empty(t, f.queue(t))
	assert.Nil(t, f.proc.Status(f.ctx).Conflict)

	local, ok := f.board.Get(models.KindCard, "c1")
	require.True(t, ok)
	assert.Equal(t, "Server title", local.Title)
	assert.Equal(t, []string{"x", "y"}, local.Tags)
	assert.Equal(t, int64(3), local.Version)

	stored, err := f.storages.Entities.Get(f.ctx, models.KindCard, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Server title", stored.Title)
}

func TestSyncProcessor_BoundedRetry(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)

	mustApply(t, f.board, models.Intent{
		Type:  models.IntentEditCard,
		ID:    "c1",
		Patch: models.EntityPatch{Description: strPtr("local")},
	})

	first := card.Clone()
	first.Version = 2
	first.Title = "Server 1"
	second := first.Clone()
	second.Version = 3
	second.Title = "Server 2"

	events, unsubscribe := f.proc.Subscribe()
	defer unsubscribe()

	gomock.InOrder(
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
			Return(models.Entity{}, &adapter.ConflictError{Server: first}),
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
			Return(models.Entity{}, &adapter.ConflictError{Server: second}),
	)

	require.NoError(t, f.proc.Drain(f.ctx))

	ev := nextEvent(t, events)
	require.Equal(t, models.EventConflict, ev.Type)
	assert.Equal(t, int64(3), ev.Conflict.ServerEntity.Version)
	assert.Equal(t, "local", ev.Conflict.LocalEntity.Description)
	assert.Empty(t, ev.Conflict.Fields, "escalated without a second merge")

	ops := f.queue(t)
	require.Len(t, ops, 1)
	assert.Equal(t, 1, ops[0].RetryCount)
	assert.Equal(t, int64(2), ops[0].Patch.Version)
}

// Scenario: keep-remote adopts the server entity and drops the operation.
func TestSyncProcessor_ResolveKeepRemote(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)

	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: "c1", Patch: models.EntityPatch{Title: strPtr("A")}})
	behindID := mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Behind"})

	serverItem := card.Clone()
	serverItem.Version = 2
	serverItem.Title = "B"
	serverItem.Tags = []string{"x"}
	serverItem.LastModifiedAt = 2000

	f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
		Return(models.Entity{}, &adapter.ConflictError{Server: serverItem}).
		Times(1)
	require.NoError(t, f.proc.Drain(f.ctx))

	conflict := f.proc.Status(f.ctx).Conflict
	require.NotNil(t, conflict)

	require.NoError(t, f.proc.ResolveConflict(f.ctx, conflict.ID, models.KeepRemote, serverItem))
	assert.True(t, drainSignal(f.proc.trigger), "resolution resumes draining")

	stored, err := f.storages.Entities.Get(f.ctx, models.KindCard, "c1")
	require.NoError(t, err)
	assert.Equal(t, serverItem, stored)
	local, _ := f.board.Get(models.KindCard, "c1")
	assert.Equal(t, serverItem, local)

	ops := f.queue(t)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OpCreateList, ops[0].Type)

	// обновление больше не отправляется, уходит только оставшаяся операция
	f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.Entity) (models.Entity, error) {
			assert.Equal(t, behindID, e.ID)
			return e, nil
		})
	require.NoError(t, f.proc.Drain(f.ctx))
	assert.Empty(t, f.queue(t))
}

func TestSyncProcessor_ResolveKeepLocal(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)

	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: "c1", Patch: models.EntityPatch{Title: strPtr("A")}})
	mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Behind"})

	serverItem := card.Clone()
	serverItem.Version = 5
	serverItem.Title = "B"

	f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
		Return(models.Entity{}, &adapter.ConflictError{Server: serverItem})
	require.NoError(t, f.proc.Drain(f.ctx))

	conflict := f.proc.Status(f.ctx).Conflict
	require.NotNil(t, conflict)

	// нулевая сущность: берём серверную из конфликта
	require.NoError(t, f.proc.ResolveConflict(f.ctx, conflict.ID, models.KeepLocal, models.Entity{}))

	ops := f.queue(t)
	require.Len(t, ops, 2)
	assert.Equal(t, models.OpCreateList, ops[0].Type, "everything else keeps its relative order")
	moved := ops[1]
	assert.Equal(t, models.OpUpdateCard, moved.Type)
	assert.Greater(t, moved.Key, conflict.ID)
	assert.Equal(t, int64(5), moved.Patch.Version)
	assert.Equal(t, "A", *moved.Patch.Title)
	assert.Zero(t, moved.RetryCount)
	require.NotNil(t, moved.BaseVersion)
	assert.Equal(t, int64(5), moved.BaseVersion.Version)

	local, _ := f.board.Get(models.KindCard, "c1")
	assert.Equal(t, "A", local.Title)
	assert.Equal(t, int64(6), local.Version)

	var sent []models.OperationType
	gomock.InOrder(
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.Entity) (models.Entity, error) {
				sent = append(sent, models.OpCreateList)
				return e, nil
			}),
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, "c1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ models.EntityKind, _ string, p models.EntityPatch) (models.Entity, error) {
				sent = append(sent, models.OpUpdateCard)
				accepted := p.Apply(serverItem)
				accepted.Version = 6
				return accepted, nil
			}),
	)
	require.NoError(t, f.proc.Drain(f.ctx))
	assert.Equal(t, []models.OperationType{models.OpCreateList, models.OpUpdateCard}, sent)
	assert.Empty(t, f.queue(t))
}

func TestSyncProcessor_ReorderConflictEscalatesDirectly(t *testing.T) {
	f := newSyncFixture(t)
	l1 := models.NewList("l1", "1", 0)
	l2 := models.NewList("l2", "2", 1)
	f.seed(t, l1, l2)

	mustApply(t, f.board, models.Intent{Type: models.IntentMoveList, ID: "l2", ToIndex: 0})

	server := l2.Clone()
	server.Version = 4
	f.remote.EXPECT().Reorder(gomock.Any(), models.KindList, gomock.Len(2)).
		Return(&adapter.ConflictError{Server: server}).
		Times(1)

	require.NoError(t, f.proc.Drain(f.ctx))

	conflict := f.proc.Status(f.ctx).Conflict
	require.NotNil(t, conflict)
	assert.Equal(t, models.OpReorderLists, conflict.OperationType)
	assert.Equal(t, 0, conflict.LocalEntity.Position)
	assert.Equal(t, 1, conflict.ServerEntity.Position)

	require.NoError(t, f.proc.ResolveConflict(f.ctx, conflict.ID, models.KeepLocal, server))
	ops := f.queue(t)
	require.Len(t, ops, 1)
	for _, pair := range ops[0].Reorder {
		if pair.ID == "l2" {
			assert.Equal(t, int64(4), pair.Version)
		} else {
			assert.Equal(t, int64(1), pair.Version)
		}
	}
}

func TestSyncProcessor_PermanentRejectionIsDroppedAndReported(t *testing.T) {
	f := newSyncFixture(t)

	first := mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Rejected"})
	second := mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Accepted"})

	events, unsubscribe := f.proc.Subscribe()
	defer unsubscribe()

	gomock.InOrder(
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).Return(models.Entity{}, adapter.ErrBadRequest),
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.Entity) (models.Entity, error) {
				assert.Equal(t, second, e.ID)
				return e, nil
			}),
	)

	require.NoError(t, f.proc.Drain(f.ctx))

	ev := nextEvent(t, events)
	require.Equal(t, models.EventSyncError, ev.Type)
	require.NotNil(t, ev.Error)
	assert.Equal(t, first, ev.Error.EntityID)
	assert.ErrorIs(t, ev.Error, adapter.ErrBadRequest)
	assert.Empty(t, f.queue(t))

	// отклонённое создание откатывается, принятое остаётся
	_, ok := f.board.Get(models.KindList, first)
	assert.False(t, ok)
	_, ok = f.board.Get(models.KindList, second)
	assert.True(t, ok)
}

func TestSyncProcessor_InternalServerErrorDoesNotStallQueue(t *testing.T) {
	f := newSyncFixture(t)

	poisoned := mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Poisoned"})
	behind := mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Behind"})

	events, unsubscribe := f.proc.Subscribe()
	defer unsubscribe()

	var sent []string
	gomock.InOrder(
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.Entity) (models.Entity, error) {
				sent = append(sent, e.ID)
				return models.Entity{}, fmt.Errorf("%w: http 500: Internal Server Error", adapter.ErrUnexpectedStatus)
			}),
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.Entity) (models.Entity, error) {
				sent = append(sent, e.ID)
				return e, nil
			}),
	)

	f.proc.SetOnline(true)
	require.NoError(t, f.proc.Drain(f.ctx))

	assert.Equal(t, []string{poisoned, behind}, sent)
	assert.Empty(t, f.queue(t))

	ev := nextEvent(t, events)
	require.Equal(t, models.EventSyncError, ev.Type)
	assert.Equal(t, poisoned, ev.Error.EntityID)
	assert.ErrorIs(t, ev.Error, adapter.ErrUnexpectedStatus)

	status := f.proc.Status(f.ctx)
	assert.True(t, status.Online, "a 500 is an answer, the authority is reachable")
	assert.Zero(t, status.Pending)
}

func TestSyncProcessor_ServerErrorOverHTTPIsDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to execute statement"}`))
	}))
	defer srv.Close()

	remote, err := adapter.NewHTTPRemoteAuthority(
		config.ClientAdapter{HTTPAddress: srv.URL, RequestTimeout: time.Second},
		config.ClientApp{},
		logger.Nop(),
	)
	require.NoError(t, err)

	storages := newTestClientStorages(t)
	trigger := newSyncTrigger()
	board := newDispatcher(storages.Entities, storages.Operations, validators.NewEntityValidator(), &seqIDs{prefix: "new"}, trigger)
	proc := newSyncProcessor(storages.Operations, board, remote, trigger, DefaultMaxMergeRetries, logger.Nop())
	ctx := context.Background()

	events, unsubscribe := proc.Subscribe()
	defer unsubscribe()

	mustApply(t, board, models.Intent{Type: models.IntentAddList, Title: "a"})
	mustApply(t, board, models.Intent{Type: models.IntentAddList, Title: "b"})

	proc.SetOnline(true)
	require.NoError(t, proc.Drain(ctx))

	status := proc.Status(ctx)
	assert.Zero(t, status.Pending)
	assert.True(t, status.Online)

	for range 2 {
		ev := nextEvent(t, events)
		require.Equal(t, models.EventSyncError, ev.Type)
		assert.ErrorIs(t, ev.Error, adapter.ErrUnexpectedStatus)
	}
	assert.Empty(t, board.Board().Columns)
}

func TestSyncProcessor_RejectedUpdateRestoresBase(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)

	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: card.ID, Patch: models.EntityPatch{Title: strPtr("Changed")}})
	f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, card.ID, gomock.Any()).Return(models.Entity{}, adapter.ErrBadRequest)

	require.NoError(t, f.proc.Drain(f.ctx))

	got, ok := f.board.Get(models.KindCard, card.ID)
	require.True(t, ok)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, card.Version, got.Version)

	stored, err := f.storages.Entities.Get(f.ctx, models.KindCard, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)
}

func TestSyncProcessor_RejectedDeleteRestoresEntity(t *testing.T) {
	tests := []struct {
		name         string
		cause        error
		wantRestored bool
	}{
		{name: "bad request restores the card", cause: adapter.ErrBadRequest, wantRestored: true},
		{name: "already gone on the server", cause: adapter.ErrNotFound, wantRestored: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSyncFixture(t)
			list, card := syncedCard()
			f.seed(t, list, card)

			mustApply(t, f.board, models.Intent{Type: models.IntentDeleteCard, ID: card.ID})
			f.remote.EXPECT().DeleteEntity(gomock.Any(), models.KindCard, card.ID).Return(tt.cause)

			require.NoError(t, f.proc.Drain(f.ctx))

			got, ok := f.board.Get(models.KindCard, card.ID)
			assert.Equal(t, tt.wantRestored, ok)
			if tt.wantRestored {
				assert.Equal(t, "Original", got.Title)
			}
			assert.Empty(t, f.queue(t))
		})
	}
}

func TestSyncProcessor_RejectionKeepsStateForLaterOperations(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)

	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: card.ID, Patch: models.EntityPatch{Title: strPtr("First")}})
	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: card.ID, Patch: models.EntityPatch{Title: strPtr("Second")}})

	gomock.InOrder(
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, card.ID, gomock.Any()).Return(models.Entity{}, adapter.ErrBadRequest),
		f.remote.EXPECT().UpdateEntity(gomock.Any(), models.KindCard, card.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ models.EntityKind, id string, p models.EntityPatch) (models.Entity, error) {
				// base ещё не откатан: второе изменение уходит поверх первого
				e, _ := f.board.Get(models.KindCard, id)
				assert.Equal(t, "Second", e.Title)
				return e, nil
			}),
	)

	require.NoError(t, f.proc.Drain(f.ctx))

	got, _ := f.board.Get(models.KindCard, card.ID)
	assert.Equal(t, "Second", got.Title)
	assert.Empty(t, f.queue(t))
}

func TestSyncProcessor_RejectedListCreateDiscardsItsCards(t *testing.T) {
	f := newSyncFixture(t)

	listID := mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Todo"})
	cardID := mustApply(t, f.board, models.Intent{Type: models.IntentAddCard, ListID: listID, Title: "a"})

	gomock.InOrder(
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).Return(models.Entity{}, adapter.ErrBadRequest),
		f.remote.EXPECT().CreateEntity(gomock.Any(), gomock.Any()).Return(models.Entity{}, adapter.ErrBadRequest),
	)

	require.NoError(t, f.proc.Drain(f.ctx))

	_, ok := f.board.Get(models.KindList, listID)
	assert.False(t, ok)
	_, ok = f.board.Get(models.KindCard, cardID)
	assert.False(t, ok)
	assert.Empty(t, f.queue(t))

	cards, err := f.storages.Entities.GetAll(f.ctx, models.KindCard)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestSyncProcessor_ResolveUnknownConflict(t *testing.T) {
	f := newSyncFixture(t)

	err := f.proc.ResolveConflict(f.ctx, 42, models.KeepRemote, models.Entity{})
	assert.ErrorIs(t, err, ErrConflictNotFound)
}

func TestSyncProcessor_ResolveUnknownResolution(t *testing.T) {
	f := newSyncFixture(t)
	list, card := syncedCard()
	f.seed(t, list, card)
	mustApply(t, f.board, models.Intent{Type: models.IntentEditCard, ID: "c1", Patch: models.EntityPatch{Title: strPtr("A")}})

	server := card.Clone()
	server.Version = 2
	server.Title = "B"
	f.remote.EXPECT().UpdateEntity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.Entity{}, &adapter.ConflictError{Server: server})
	require.NoError(t, f.proc.Drain(f.ctx))

	conflict := f.proc.Status(f.ctx).Conflict
	require.NotNil(t, conflict)
	assert.ErrorIs(t, f.proc.ResolveConflict(f.ctx, conflict.ID, "merge", server), ErrUnknownResolution)
	assert.NotNil(t, f.proc.Status(f.ctx).Conflict)
}

func TestSyncProcessor_RefreshOnlyWhenQueueEmpty(t *testing.T) {
	f := newSyncFixture(t)

	remoteBoard := models.BuildBoard([]models.Entity{models.NewList("r1", "Remote", 0)}, nil)

	f.remote.EXPECT().GetBoard(gomock.Any()).Return(remoteBoard, nil)
	require.NoError(t, f.proc.Refresh(f.ctx))
	columns := f.board.Board().Columns
	require.Len(t, columns, 1)
	assert.Equal(t, "r1", columns[0].ID)
	assert.Equal(t, "Remote", columns[0].Title)
	assert.True(t, f.proc.Status(f.ctx).Online)

	// есть неотправленная операция: сервер не опрашивается
	mustApply(t, f.board, models.Intent{Type: models.IntentAddList, Title: "Local"})
	require.NoError(t, f.proc.Refresh(f.ctx))
	assert.Len(t, f.board.Board().Columns, 2)
}

func TestSyncProcessor_RefreshOffline(t *testing.T) {
	f := newSyncFixture(t)
	f.proc.SetOnline(true)

	f.remote.EXPECT().GetBoard(gomock.Any()).Return(models.Board{}, adapter.ErrNetworkUnavailable)
	require.NoError(t, f.proc.Refresh(f.ctx))
	assert.False(t, f.proc.Status(f.ctx).Online)

	f.remote.EXPECT().GetBoard(gomock.Any()).Return(models.Board{}, adapter.ErrUnexpectedStatus)
	assert.ErrorIs(t, f.proc.Refresh(f.ctx), ErrRefreshingBoard)
}

func TestSyncProcessor_SetOnlineTriggersOnTransition(t *testing.T) {
	f := newSyncFixture(t)

	f.proc.SetOnline(false)
	assert.False(t, drainSignal(f.proc.trigger))

	f.proc.SetOnline(true)
	assert.True(t, drainSignal(f.proc.trigger))

	f.proc.SetOnline(true)
	assert.False(t, drainSignal(f.proc.trigger), "staying online does not trigger")

	f.proc.Trigger()
	f.proc.Trigger()
	assert.True(t, drainSignal(f.proc.trigger))
	assert.False(t, drainSignal(f.proc.trigger), "triggers coalesce")
}

func TestSyncProcessor_Unsubscribe(t *testing.T) {
	f := newSyncFixture(t)

	events, unsubscribe := f.proc.Subscribe()
	unsubscribe()
	unsubscribe()

	_, open := <-events
	assert.False(t, open)

	// публикация без подписчиков не паникует
	f.proc.publish(models.SyncEvent{Type: models.EventSyncError, Error: &models.SyncError{}})
}

func TestSyncProcessor_FullSubscriberDropsEvents(t *testing.T) {
	f := newSyncFixture(t)
	events, unsubscribe := f.proc.Subscribe()
	defer unsubscribe()

	for i := 0; i < eventBufferSize+5; i++ {
		f.proc.publish(models.SyncEvent{Type: models.EventSyncError, Error: &models.SyncError{}})
	}
	assert.Len(t, events, eventBufferSize)
}

func TestSyncProcessor_LocalFailureAbortsDrain(t *testing.T) {
	ctrl := gomock.NewController(t)
	operations := mock.NewMockOperationLog(ctrl)
	remote := mock.NewMockRemoteAuthority(ctrl)
	board := newTestDispatcher(t, mock.NewMockEntityStore(ctrl), operations)
	proc := newSyncProcessor(operations, board, remote, newSyncTrigger(), 0, logger.Nop())
	ctx := context.Background()

	readErr := errors.New("database is locked")
	operations.EXPECT().ReadAll(ctx).Return(nil, readErr)
	err := proc.Drain(ctx)
	assert.ErrorIs(t, err, ErrReadingQueue)
	assert.ErrorIs(t, err, readErr)

	list := models.NewList("l1", "Todo", 0)
	op := models.QueuedOperation{Key: 7, Type: models.OpCreateList, EntityID: "l1", Entity: &list}
	operations.EXPECT().ReadAll(ctx).Return([]models.QueuedOperation{op}, nil)
	remote.EXPECT().CreateEntity(ctx, list).Return(list, nil)
	operations.EXPECT().Remove(ctx, int64(7)).Return(errors.New("disk full"))

	err = proc.Drain(ctx)
	assert.ErrorIs(t, err, ErrLocalPersistence)

	operations.EXPECT().Len(ctx).Return(1, nil)
	status := proc.Status(ctx)
	assert.False(t, status.Syncing)
	assert.Equal(t, 1, status.Pending)
}

func TestSyncProcessor_MalformedOperationIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	operations := mock.NewMockOperationLog(ctrl)
	remote := mock.NewMockRemoteAuthority(ctrl)
	board := newTestDispatcher(t, mock.NewMockEntityStore(ctrl), operations)
	proc := newSyncProcessor(operations, board, remote, newSyncTrigger(), 0, logger.Nop())
	ctx := context.Background()

	events, unsubscribe := proc.Subscribe()
	defer unsubscribe()

	gomock.InOrder(
		operations.EXPECT().ReadAll(ctx).Return([]models.QueuedOperation{{Key: 1, Type: models.OpUpdateCard, EntityID: "c1"}}, nil),
		operations.EXPECT().Remove(ctx, int64(1)).Return(nil),
		operations.EXPECT().ReadAll(ctx).Return(nil, nil),
	)

	require.NoError(t, proc.Drain(ctx))
	ev := nextEvent(t, events)
	assert.ErrorIs(t, ev.Error, ErrMalformedOperation)
}
