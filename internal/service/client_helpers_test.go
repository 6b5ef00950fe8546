package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/internal/validators"
	"github.com/MKhiriev/go-board-sync/models"
)

// seqIDs выдаёт предсказуемые id: prefix-1, prefix-2, ...
type seqIDs struct {
	prefix string
	n      atomic.Int64
}

func (s *seqIDs) Generate() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}

func newTestClientStorages(t *testing.T) *store.ClientStorages {
	t.Helper()
	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "board.db")}}
	storages, err := store.NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })
	return storages
}

func newTestDispatcher(t *testing.T, entities store.EntityStore, operations store.OperationLog) *dispatcher {
	t.Helper()
	return newDispatcher(entities, operations, validators.NewEntityValidator(), &seqIDs{prefix: "id"}, newSyncTrigger())
}

func strPtr(s string) *string { return &s }

func mustApply(t *testing.T, d *dispatcher, intent models.Intent) string {
	t.Helper()
	id, err := d.Apply(context.Background(), intent)
	require.NoError(t, err)
	return id
}

func drainSignal(tr *syncTrigger) bool {
	select {
	case <-tr.C():
		return true
	default:
		return false
	}
}
