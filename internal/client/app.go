package client

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/MKhiriev/go-board-sync/internal/logger"
)

type App struct {
	board     BoardLoader
	ui        UI
	workers   BackgroundRunner
	resources []Resource

	logger *logger.Logger
}

// NewApp assembles the client runtime. resources are closed in order when Run
// returns.
func NewApp(board BoardLoader, ui UI, workers BackgroundRunner, logger *logger.Logger, resources ...Resource) *App {
	return &App{
		board:     board,
		ui:        ui,
		workers:   workers,
		resources: resources,
		logger:    logger,
	}
}

// Run loads the board, starts the background workers and blocks in the UI.
// Workers are stopped and resources released before Run returns.
func (a *App) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancel(a.logger.WithContext(ctx))
	defer func() {
		err = multierr.Append(err, a.close())
	}()
	defer cancel()

	if err = a.board.Load(ctx); err != nil {
		a.logger.Err(err).Str("func", "*App.Run").Msg("failed to load local board")
		return fmt.Errorf("load board: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.workers.Run(ctx)
	}()

	a.logger.Info().Msg("client started")
	err = a.ui.Run(ctx)

	cancel()
	wg.Wait()
	a.logger.Info().Msg("client stopped")

	return err
}

func (a *App) close() error {
	var err error
	for _, r := range a.resources {
		err = multierr.Append(err, r.Close())
	}
	return err
}
