package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-board-sync/models"
)

const boardHotKeys = "←↑↓→ курсор  shift+стрелки переместить  a карточка  A список  e изменить  d удалить\n" +
	"  s синхронизировать  c копировать id  v о программе  esc скрыть ошибку  q выход"

func (m boardModel) View() string {
	if m.showBuildInfo {
		return renderBuildInfoWindow(m.buildInfo)
	}
	if m.conflict != nil {
		return renderPage("КОНФЛИКТ", renderConflictOverlay(m.conflict), "")
	}

	var b strings.Builder
	b.WriteString(renderStatusBar(m.status))
	b.WriteString("\n\n")
	b.WriteString(m.renderColumns())
	b.WriteString("\n")

	switch m.mode {
	case modeAddList:
		b.WriteString("\nНовый список: " + m.input.View())
	case modeAddCard:
		b.WriteString("\nНовая карточка в \"" + m.snapshot.Columns[m.col].Title + "\": " + m.input.View())
	case modeEdit:
		b.WriteString("\nНазвание: " + m.input.View())
	case modeConfirmDelete:
		b.WriteString("\n" + renderConfirmOverlay(m.target.Title))
	}

	if m.errLine != "" {
		b.WriteString("\n" + errorStyle.Render("Ошибка: "+m.errLine))
	}
	if m.statusLine != "" {
		b.WriteString("\n" + m.statusLine)
	}

	return renderPage("ДОСКА", b.String(), boardHotKeys)
}

func renderStatusBar(s models.SyncStatus) string {
	parts := make([]string, 0, 3)
	if s.Online {
		parts = append(parts, onlineStyle.Render("● онлайн"))
	} else {
		parts = append(parts, offlineStyle.Render("○ офлайн"))
	}
	if s.Syncing {
		parts = append(parts, "⟳ синхронизация")
	}
	parts = append(parts, fmt.Sprintf("в очереди: %d", s.Pending))
	if s.Conflict != nil {
		parts = append(parts, errorStyle.Render("конфликт"))
	}
	return strings.Join(parts, "  |  ")
}

func (m boardModel) renderColumns() string {
	if len(m.snapshot.Columns) == 0 {
		return "Нет списков. A: новый список"
	}

	rendered := make([]string, 0, len(m.snapshot.Columns))
	for i, col := range m.snapshot.Columns {
		rendered = append(rendered, m.renderColumn(i, col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m boardModel) renderColumn(i int, col models.Column) string {
	active := i == m.col
	width := columnWidth - 2

	var b strings.Builder
	header := fitText(col.Title, width)
	if active && m.row == -1 {
		header = selectedStyle.Render(header)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", width))

	if len(col.Cards) == 0 {
		b.WriteString("\n" + helpStyle.Render("пусто"))
	}
	for j, card := range col.Cards {
		line := fitText("• "+card.Title, width)
		if active && j == m.row {
			line = selectedStyle.Render(line)
		}
		b.WriteString("\n" + line)
		if len(card.Tags) > 0 {
			b.WriteString("\n" + helpStyle.Render(fitText("  #"+strings.Join(card.Tags, " #"), width)))
		}
	}

	style := columnStyle
	if active {
		style = activeColumnStyle
	}
	return style.Render(b.String())
}
