// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/utils"
	"github.com/MKhiriev/go-board-sync/models"
)

// ctxWorker is a test worker that blocks until its context is cancelled.
type ctxWorker struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (w *ctxWorker) Run(ctx context.Context) {
	w.started.Add(1)
	<-ctx.Done()
	w.stopped.Add(1)
}

// fakeSyncer records calls made by the drain worker.
type fakeSyncer struct {
	mu       sync.Mutex
	status   models.SyncStatus
	drainErr error

	drains    atomic.Int32
	refreshes atomic.Int32
	triggers  chan struct{}
	online    []bool
	traceIDs  []string
}

func newFakeSyncer(status models.SyncStatus) *fakeSyncer {
	return &fakeSyncer{status: status, triggers: make(chan struct{}, 1)}
}

func (f *fakeSyncer) Drain(ctx context.Context) error {
	f.drains.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	traceID, _ := utils.GetTraceIDFromContext(ctx)
	f.traceIDs = append(f.traceIDs, traceID)
	return f.drainErr
}

func (f *fakeSyncer) Refresh(context.Context) error {
	f.refreshes.Add(1)
	return nil
}

func (f *fakeSyncer) Status(context.Context) models.SyncStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeSyncer) Triggers() <-chan struct{} { return f.triggers }

func (f *fakeSyncer) SetOnline(online bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = append(f.online, online)
}

func (f *fakeSyncer) reports() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.online...)
}

type fakePinger struct {
	fail atomic.Bool
}

func (p *fakePinger) Ping(context.Context) error {
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func runAsync(ctx context.Context, w Worker) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorkers_Run_StartsAllAndWaits(t *testing.T) {
	w1, w2 := &ctxWorker{}, &ctxWorker{}
	ws := &Workers{workers: []Worker{w1, w2}}

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, ws)

	require.Eventually(t, func() bool {
		return w1.started.Load() == 1 && w2.started.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	waitDone(t, done)
	assert.EqualValues(t, 1, w1.stopped.Load())
	assert.EqualValues(t, 1, w2.stopped.Load())
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	// Should not block or panic on empty workers list
	ws.Run(context.Background())
}

func TestDrainWorker_DrainsOnStartTickAndTrigger(t *testing.T) {
	syncer := newFakeSyncer(models.SyncStatus{Online: false})
	w := newDrainWorker(syncer, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w)

	require.Eventually(t, func() bool { return syncer.drains.Load() == 1 }, time.Second, 5*time.Millisecond)

	syncer.triggers <- struct{}{}
	require.Eventually(t, func() bool { return syncer.drains.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	waitDone(t, done)
	assert.Zero(t, syncer.refreshes.Load(), "offline client must not refresh")
}

func TestDrainWorker_TickerDrains(t *testing.T) {
	syncer := newFakeSyncer(models.SyncStatus{})
	w := newDrainWorker(syncer, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w)

	assert.Eventually(t, func() bool { return syncer.drains.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	waitDone(t, done)
}

func TestDrainWorker_RefreshOnlyAfterEmptyDrain(t *testing.T) {
	tests := []struct {
		name        string
		status      models.SyncStatus
		drainErr    error
		wantRefresh bool
	}{
		{
			name:        "online and empty",
			status:      models.SyncStatus{Online: true},
			wantRefresh: true,
		},
		{
			name:   "pending operations",
			status: models.SyncStatus{Online: true, Pending: 2},
		},
		{
			name:   "blocked by conflict",
			status: models.SyncStatus{Online: true, Conflict: &models.Conflict{ID: 1}},
		},
		{
			name:   "offline",
			status: models.SyncStatus{},
		},
		{
			name:     "drain failed",
			status:   models.SyncStatus{Online: true},
			drainErr: errors.New("disk I/O error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := newFakeSyncer(tt.status)
			syncer.drainErr = tt.drainErr
			w := newDrainWorker(syncer, time.Hour, logger.Nop())

			w.drain(context.Background())

			assert.EqualValues(t, 1, syncer.drains.Load())
			if tt.wantRefresh {
				assert.EqualValues(t, 1, syncer.refreshes.Load())
			} else {
				assert.Zero(t, syncer.refreshes.Load())
			}
		})
	}
}

func TestDrainWorker_EachDrainGetsTraceID(t *testing.T) {
	syncer := newFakeSyncer(models.SyncStatus{})
	w := newDrainWorker(syncer, time.Hour, logger.Nop())

	w.drain(context.Background())
	w.drain(context.Background())

	require.Len(t, syncer.traceIDs, 2)
	assert.NotEmpty(t, syncer.traceIDs[0])
	assert.NotEqual(t, syncer.traceIDs[0], syncer.traceIDs[1])
}

func TestConnectivityWorker_ReportsProbeResults(t *testing.T) {
	syncer := newFakeSyncer(models.SyncStatus{})
	pinger := &fakePinger{}
	w := newConnectivityWorker(pinger, syncer, time.Hour, logger.Nop())

	w.probe(context.Background())
	pinger.fail.Store(true)
	w.probe(context.Background())
	pinger.fail.Store(false)
	w.probe(context.Background())

	assert.Equal(t, []bool{true, false, true}, syncer.reports())
}

func TestConnectivityWorker_ProbesUntilCancelled(t *testing.T) {
	syncer := newFakeSyncer(models.SyncStatus{})
	w := newConnectivityWorker(&fakePinger{}, syncer, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w)

	assert.Eventually(t, func() bool { return len(syncer.reports()) >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	waitDone(t, done)
}

func TestNewWorkers_DefaultsIntervals(t *testing.T) {
	syncer := newFakeSyncer(models.SyncStatus{})

	d := newDrainWorker(syncer, 0, logger.Nop())
	c := newConnectivityWorker(&fakePinger{}, syncer, -1, logger.Nop())

	assert.Positive(t, d.interval)
	assert.Positive(t, c.interval)
}
