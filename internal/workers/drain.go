package workers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/utils"
)

type drainWorker struct {
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger
}

func newDrainWorker(syncer Syncer, interval time.Duration, logger *logger.Logger) *drainWorker {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}
	return &drainWorker{syncer: syncer, interval: interval, logger: logger}
}

// Run drains the queue on start, on every tick and on every trigger signal.
func (d *drainWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug().Str("func", "*drainWorker.Run").Msg("drain worker stopped")
			return
		case <-ticker.C:
			d.drain(ctx)
		case <-d.syncer.Triggers():
			d.drain(ctx)
		}
	}
}

// drain runs one drain under a fresh trace id, which the adapter forwards as
// X-Trace-ID.
func (d *drainWorker) drain(ctx context.Context) {
	traceID := uuid.NewString()
	log := d.logger.WithTraceID(traceID)
	ctx = log.WithContext(utils.WithTraceID(ctx, traceID))

	if err := d.syncer.Drain(ctx); err != nil {
		log.Err(err).Str("func", "*drainWorker.drain").Msg("drain failed")
		return
	}

	status := d.syncer.Status(ctx)
	if !status.Online || status.Pending > 0 || status.Conflict != nil {
		return
	}
	if err := d.syncer.Refresh(ctx); err != nil {
		log.Err(err).Str("func", "*drainWorker.drain").Msg("refresh failed")
	}
}
