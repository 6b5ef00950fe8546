package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
)

type connectivityWorker struct {
	remote   Pinger
	reporter ConnectivityReporter
	interval time.Duration
	logger   *logger.Logger
}

func newConnectivityWorker(remote Pinger, reporter ConnectivityReporter, interval time.Duration, logger *logger.Logger) *connectivityWorker {
	if interval <= 0 {
		interval = config.DefaultProbeInterval
	}
	return &connectivityWorker{remote: remote, reporter: reporter, interval: interval, logger: logger}
}

// Run probes the remote authority on start and then every interval.
func (c *connectivityWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.probe(ctx)
		}
	}
}

func (c *connectivityWorker) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, c.interval)
	defer cancel()

	err := c.remote.Ping(probeCtx)
	if err != nil {
		c.logger.Debug().Err(err).Str("func", "*connectivityWorker.probe").Msg("remote authority unreachable")
	}
	if ctx.Err() != nil {
		return
	}
	c.reporter.SetOnline(err == nil)
}
