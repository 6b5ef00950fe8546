package tui

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
	"github.com/MKhiriev/go-board-sync/models"
)

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}
}

// Run shows the board until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	events, unsubscribe := t.services.SyncService.Subscribe()
	defer unsubscribe()

	model := newBoardModel(ctx, t.services.BoardService, t.services.SyncService, events, t.buildInfo)
	model.copy = clipboard.WriteAll

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		t.logger.Err(err).Str("func", "*TUI.Run").Msg("terminal UI stopped with error")
		return err
	}
	return nil
}
