package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-board-sync/internal/adapter"
	"github.com/MKhiriev/go-board-sync/internal/client"
	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/internal/tui"
	"github.com/MKhiriev/go-board-sync/internal/workers"
	"github.com/MKhiriev/go-board-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	buildInfo.Print(os.Stdout)

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("board-client", cfg.App.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remote, err := adapter.NewHTTPRemoteAuthority(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote authority adapter")
	}

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	services := service.NewClientServices(localStorage, remote, cfg.Workers, log)
	ui := tui.New(services, buildInfo, log)
	jobs := workers.NewWorkers(services.SyncService, remote, cfg.Workers, log)

	app := client.NewApp(services.BoardService, ui, jobs, log, localStorage)
	if err = app.Run(ctx); err != nil {
		log.Err(err).Msg("client run error")
		fmt.Fprintf(os.Stderr, "client run error: %v\n", err)
		os.Exit(1)
	}
}
