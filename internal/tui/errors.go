// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-board-sync/internal/adapter"
	"github.com/MKhiriev/go-board-sync/internal/service"
	"github.com/MKhiriev/go-board-sync/models"
)

func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, adapter.ErrNetworkUnavailable):
		return "Отсутствует сеть или Сервер недоступен"
	case errors.Is(err, service.ErrLocalPersistence):
		return "Не удалось сохранить изменения локально"
	case errors.Is(err, service.ErrInvalidIntent):
		return "Некорректные данные: " + err.Error()
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или Сервер недоступен"
	}

	return err.Error()
}

func describeSyncError(e *models.SyncError) string {
	if e == nil {
		return ""
	}
	msg := "Сервер отклонил " + string(e.OperationType) + " " + e.EntityID
	if e.Err != nil {
		msg += ": " + humanizeError(e.Err)
	}
	return msg
}
