package http

import (
	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
)

type Handler struct {
	services *service.Services
	chaos    *chaos
	hashKey  string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.ServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		chaos:    newChaos(cfg.Server.Latency, cfg.Server.FailureRate),
		hashKey:  cfg.App.HashKey,
		logger:   logger,
	}
}
