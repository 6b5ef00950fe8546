package tui

import (
	"github.com/MKhiriev/go-board-sync/models"
)

type boardLoadedMsg struct {
	board  models.Board
	status models.SyncStatus
}

type tickMsg struct{}

type syncEventMsg struct {
	event models.SyncEvent
}

type intentDoneMsg struct {
	intent models.Intent
	err    error
}

type resolveDoneMsg struct {
	resolution models.Resolution
	err        error
}

type syncRequestedMsg struct{}

type copiedMsg struct {
	id  string
	err error
}
