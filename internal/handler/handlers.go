package handler

import (
	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-board-sync/internal/handler/http"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
)

// Handlers holds the transport handlers enabled by the server configuration.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, cfg config.ServerConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
