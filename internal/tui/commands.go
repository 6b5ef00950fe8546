package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-board-sync/models"
)

func (m boardModel) cmdLoad() tea.Cmd {
	return func() tea.Msg {
		return boardLoadedMsg{board: m.board.Board(), status: m.sync.Status(m.ctx)}
	}
}

func (m boardModel) cmdTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m boardModel) cmdWaitEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return syncEventMsg{event: event}
	}
}

func (m boardModel) cmdApply(intent models.Intent) tea.Cmd {
	return func() tea.Msg {
		_, err := m.board.Apply(m.ctx, intent)
		return intentDoneMsg{intent: intent, err: err}
	}
}

func (m boardModel) cmdResolve(resolution models.Resolution) tea.Cmd {
	id := m.conflict.ID
	return func() tea.Msg {
		err := m.sync.ResolveConflict(m.ctx, id, resolution, models.Entity{})
		return resolveDoneMsg{resolution: resolution, err: err}
	}
}

// cmdSync only signals the drain worker. The UI never calls Drain itself.
func (m boardModel) cmdSync() tea.Cmd {
	return func() tea.Msg {
		m.sync.Trigger()
		return syncRequestedMsg{}
	}
}

func (m boardModel) cmdCopy(id string) tea.Cmd {
	copyFn := m.copy
	return func() tea.Msg {
		return copiedMsg{id: id, err: copyFn(id)}
	}
}
