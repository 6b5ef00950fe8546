package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	return entry
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("remote-authority")
	l.Logger = l.Output(&buf)

	l.Info().Msg("started")

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "remote-authority", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry["func"], "TestNewLogger_Fields")
}

func TestNewLogger_Globals(t *testing.T) {
	NewLogger("server")

	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger_InheritsAndIsolates(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("board-client")
	parent.Logger = parent.Output(&buf)

	child := parent.GetChildLogger()
	child.UpdateContext(func(c zerolog.Context) zerolog.Context { return c.Str("list", "l-1") })
	assert.NotSame(t, parent, child)

	child.Info().Msg("child")
	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "board-client", entry["role"])
	assert.Equal(t, "l-1", entry["list"])

	buf.Reset()
	parent.Info().Msg("parent")
	assert.NotContains(t, decodeEntry(t, buf.Bytes()), "list")
}

func TestWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{zerolog.New(&buf)}

	traced := l.WithTraceID("trace-1")
	traced.Info().Msg("drain")

	assert.Equal(t, "trace-1", decodeEntry(t, buf.Bytes())[TraceIDField])

	buf.Reset()
	l.Info().Msg("plain")
	assert.NotContains(t, decodeEntry(t, buf.Bytes()), TraceIDField)
}

func TestFromContext(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("ctx-key", "ctx-value").Logger()

	FromContext(zl.WithContext(context.Background())).Info().Msg("from context")

	assert.Equal(t, "ctx-value", decodeEntry(t, buf.Bytes())["ctx-key"])
}

func TestFromRequest(t *testing.T) {
	require.NotNil(t, FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))

	var buf bytes.Buffer
	l := (&Logger{zerolog.New(&buf)}).WithTraceID("req-trace")
	req := httptest.NewRequest(http.MethodGet, "/api/board", nil)
	req = req.WithContext(l.WithContext(req.Context()))

	FromRequest(req).Info().Msg("from request")

	assert.Equal(t, "req-trace", decodeEntry(t, buf.Bytes())[TraceIDField])
}

func TestNewClientLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	l := NewClientLogger("client", path)
	require.NotNil(t, l)

	l.Info().Str("list", "l-1").Msg("queued")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	entry := decodeEntry(t, data)
	assert.Equal(t, "client", entry["role"])
	assert.Equal(t, "l-1", entry["list"])
	assert.Equal(t, "queued", entry["message"])
}
