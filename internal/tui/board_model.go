package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-board-sync/internal/service"
	"github.com/MKhiriev/go-board-sync/models"
)

const refreshInterval = 500 * time.Millisecond

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAddList
	modeAddCard
	modeEdit
	modeConfirmDelete
)

// boardModel renders the in-memory board and turns key presses into intents.
// The cursor is (col, row); row -1 selects the list header.
type boardModel struct {
	ctx       context.Context
	board     service.ClientBoardService
	sync      service.ClientSyncService
	events    <-chan models.SyncEvent
	copy      func(string) error
	buildInfo models.AppBuildInfo

	snapshot models.Board
	status   models.SyncStatus

	col int
	row int

	mode   inputMode
	input  textinput.Model
	target models.Entity

	conflict      *models.Conflict
	errLine       string
	statusLine    string
	showBuildInfo bool
}

func newBoardModel(ctx context.Context, board service.ClientBoardService, sync service.ClientSyncService,
	events <-chan models.SyncEvent, buildInfo models.AppBuildInfo) boardModel {
	input := textinput.New()
	input.Width = columnWidth
	input.CharLimit = 200

	return boardModel{
		ctx:       ctx,
		board:     board,
		sync:      sync,
		events:    events,
		copy:      func(string) error { return nil },
		buildInfo: buildInfo,
		row:       -1,
		input:     input,
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoad(), m.cmdTick(), m.cmdWaitEvent())
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		m.snapshot = msg.board
		m.status = msg.status
		if m.conflict == nil && msg.status.Conflict != nil {
			m.conflict = msg.status.Conflict
		}
		m.clampCursor()
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.cmdLoad(), m.cmdTick())
	case syncEventMsg:
		switch msg.event.Type {
		case models.EventConflict:
			m.conflict = msg.event.Conflict
		case models.EventSyncError:
			m.errLine = describeSyncError(msg.event.Error)
		}
		return m, tea.Batch(m.cmdWaitEvent(), m.cmdLoad())
	case intentDoneMsg:
		if msg.err != nil {
			m.errLine = humanizeError(msg.err)
			return m, m.cmdLoad()
		}
		m.statusLine = intentStatus(msg.intent.Type)
		return m, m.cmdLoad()
	case resolveDoneMsg:
		if msg.err != nil {
			m.errLine = humanizeError(msg.err)
			return m, m.cmdLoad()
		}
		m.conflict = nil
		m.statusLine = "Конфликт разрешён"
		return m, m.cmdLoad()
	case syncRequestedMsg:
		m.statusLine = "Синхронизация запущена"
		return m, m.cmdLoad()
	case copiedMsg:
		if msg.err != nil {
			m.errLine = "Ошибка копирования: " + msg.err.Error()
			return m, nil
		}
		m.statusLine = "Скопировано: " + msg.id
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.mode == modeAddList || m.mode == modeAddCard || m.mode == modeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m boardModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// the conflict overlay blocks everything else
	if m.conflict != nil {
		switch {
		case key.Matches(msg, keys.keepLocal):
			return m, m.cmdResolve(models.KeepLocal)
		case key.Matches(msg, keys.keepRemote):
			return m, m.cmdResolve(models.KeepRemote)
		}
		return m, nil
	}

	if m.showBuildInfo {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.info) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	switch m.mode {
	case modeAddList, modeAddCard, modeEdit:
		return m.updateInput(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m boardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.esc):
		m.errLine = ""
	case key.Matches(msg, keys.info):
		m.showBuildInfo = true
	case key.Matches(msg, keys.up):
		if m.row > -1 {
			m.row--
		}
	case key.Matches(msg, keys.down):
		if m.row < len(m.cards())-1 {
			m.row++
		}
	case key.Matches(msg, keys.left):
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
	case key.Matches(msg, keys.right):
		if m.col < len(m.snapshot.Columns)-1 {
			m.col++
			m.clampCursor()
		}
	case key.Matches(msg, keys.moveUp), key.Matches(msg, keys.moveDown),
		key.Matches(msg, keys.moveLeft), key.Matches(msg, keys.moveRight):
		return m.move(msg)
	case key.Matches(msg, keys.addList):
		return m.startInput(modeAddList, "", models.Entity{})
	case key.Matches(msg, keys.addCard):
		if len(m.snapshot.Columns) == 0 {
			m.statusLine = "Сначала добавьте список (A)"
			return m, nil
		}
		return m.startInput(modeAddCard, "", models.Entity{})
	case key.Matches(msg, keys.edit):
		if e, ok := m.selected(); ok {
			return m.startInput(modeEdit, e.Title, e)
		}
	case key.Matches(msg, keys.delete):
		if e, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.target = e
		}
	case key.Matches(msg, keys.copy):
		if e, ok := m.selected(); ok {
			return m, m.cmdCopy(e.ID)
		}
	case key.Matches(msg, keys.sync):
		m.statusLine = "Синхронизация..."
		m.errLine = ""
		return m, m.cmdSync()
	}
	return m, nil
}

func (m boardModel) startInput(mode inputMode, value string, target models.Entity) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.target = target
	m.input.Reset()
	m.input.SetValue(value)
	m.input.Placeholder = "Название"
	cmd := m.input.Focus()
	return m, cmd
}

func (m boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keys.enter):
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.errLine = "Название не может быть пустым"
			return m, nil
		}
		intent := m.inputIntent(title)
		m.mode = modeBrowse
		m.input.Blur()
		m.errLine = ""
		return m, m.cmdApply(intent)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m boardModel) inputIntent(title string) models.Intent {
	switch m.mode {
	case modeAddList:
		return models.Intent{Type: models.IntentAddList, Title: title}
	case modeAddCard:
		return models.Intent{Type: models.IntentAddCard, ListID: m.snapshot.Columns[m.col].ID, Title: title}
	default:
		intentType := models.IntentEditCard
		if m.target.Kind == models.KindList {
			intentType = models.IntentEditList
		}
		return models.Intent{Type: intentType, ID: m.target.ID, Patch: models.EntityPatch{Title: &title}}
	}
}

func (m boardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.mode = modeBrowse
		intentType := models.IntentDeleteCard
		if m.target.Kind == models.KindList {
			intentType = models.IntentDeleteList
		}
		return m, m.cmdApply(models.Intent{Type: intentType, ID: m.target.ID})
	case key.Matches(msg, keys.no):
		m.mode = modeBrowse
	}
	return m, nil
}

// move turns a shift+arrow press into a move intent. The cursor follows the
// moved entity.
func (m boardModel) move(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e, ok := m.selected()
	if !ok {
		return m, nil
	}

	if e.Kind == models.KindList {
		to := m.col
		switch {
		case key.Matches(msg, keys.moveLeft):
			to--
		case key.Matches(msg, keys.moveRight):
			to++
		}
		if to == m.col || to < 0 || to >= len(m.snapshot.Columns) {
			return m, nil
		}
		m.col = to
		return m, m.cmdApply(models.Intent{Type: models.IntentMoveList, ID: e.ID, ToIndex: to})
	}

	listID := m.snapshot.Columns[m.col].ID
	switch {
	case key.Matches(msg, keys.moveUp):
		if m.row == 0 {
			return m, nil
		}
		m.row--
		return m, m.cmdApply(models.Intent{Type: models.IntentMoveCard, ID: e.ID, ListID: listID, ToIndex: m.row})
	case key.Matches(msg, keys.moveDown):
		if m.row >= len(m.cards())-1 {
			return m, nil
		}
		m.row++
		return m, m.cmdApply(models.Intent{Type: models.IntentMoveCard, ID: e.ID, ListID: listID, ToIndex: m.row})
	}

	to := m.col - 1
	if key.Matches(msg, keys.moveRight) {
		to = m.col + 1
	}
	if to < 0 || to >= len(m.snapshot.Columns) {
		return m, nil
	}
	m.col = to
	m.row = len(m.snapshot.Columns[to].Cards)
	return m, m.cmdApply(models.Intent{Type: models.IntentMoveCard, ID: e.ID, ListID: m.snapshot.Columns[to].ID, ToIndex: -1})
}

func (m boardModel) cards() []models.Entity {
	if m.col < 0 || m.col >= len(m.snapshot.Columns) {
		return nil
	}
	return m.snapshot.Columns[m.col].Cards
}

func (m boardModel) selected() (models.Entity, bool) {
	if m.col < 0 || m.col >= len(m.snapshot.Columns) {
		return models.Entity{}, false
	}
	column := m.snapshot.Columns[m.col]
	if m.row < 0 {
		list := column.Entity
		list.Kind = models.KindList
		return list, true
	}
	if m.row >= len(column.Cards) {
		return models.Entity{}, false
	}
	card := column.Cards[m.row]
	card.Kind = models.KindCard
	return card, true
}

func (m *boardModel) clampCursor() {
	if n := len(m.snapshot.Columns); m.col >= n {
		m.col = n - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	if n := len(m.cards()); m.row >= n {
		m.row = n - 1
	}
	if m.row < -1 {
		m.row = -1
	}
}

func intentStatus(t models.IntentType) string {
	switch t {
	case models.IntentAddList, models.IntentAddCard:
		return "Добавлено"
	case models.IntentEditList, models.IntentEditCard:
		return "Изменено"
	case models.IntentDeleteList, models.IntentDeleteCard:
		return "Удалено"
	default:
		return "Перемещено"
	}
}
