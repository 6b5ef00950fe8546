package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-board-sync/models"
)

func renderConflictOverlay(c *models.Conflict) string {
	var b strings.Builder

	b.WriteString("Конфликт версий\n\n")
	fmt.Fprintf(&b, "Операция: %s\n", c.OperationType)
	fmt.Fprintf(&b, "Элемент:  %s\n", c.ServerEntity.ID)
	fmt.Fprintf(&b, "Версия:   локальная %d, на сервере %d\n", c.LocalEntity.Version, c.ServerEntity.Version)

	fields := c.Fields
	if len(fields) == 0 {
		fields = []string{"title"}
	}
	for _, field := range fields {
		local, server := fieldValue(c.LocalEntity, field), fieldValue(c.ServerEntity, field)
		fmt.Fprintf(&b, "\n%s\n  локально: %s\n  сервер:   %s\n", field, local, server)
	}

	b.WriteString("\nl оставить локальное    r принять серверное")
	return overlayBoxStyle.Render(b.String())
}

func renderConfirmOverlay(title string) string {
	content := "Удалить \"" + title + "\"?\n\n"
	content += "y да    n нет"
	return overlayBoxStyle.Render(content)
}

func fieldValue(e models.Entity, field string) string {
	switch field {
	case "title":
		return valueOrDash(e.Title)
	case "description":
		return valueOrDash(e.Description)
	case "tags":
		return valueOrDash(strings.Join(e.Tags, ", "))
	case "list_id":
		return valueOrDash(e.ListID)
	case "position":
		return fmt.Sprintf("%d", e.Position)
	default:
		return "-"
	}
}
