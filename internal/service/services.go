package service

import (
	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/store"
)

type Services struct {
	BoardService   BoardService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	board := NewBoardValidationService().Wrap(NewBoardService(storages.BoardRepository, logger))

	return &Services{
		BoardService:   board,
		AppInfoService: appInfo,
	}, nil
}
