package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"realty-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postedRecord struct {
	tag  string
	data port.Fields
}

type fakePoster struct {
	records []postedRecord
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.records = append(f.records, postedRecord{tag: tag, data: message.(port.Fields)})
	return errors.New("fluent-bit unavailable")
}

func TestSlogAdapterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.WithFields(port.Fields{"trace_id": "t-1"}).
		Error("Failed to store deal", errors.New("boom"), port.Fields{"deal_id": 5})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "Failed to store deal", record["msg"])
	assert.Equal(t, "t-1", record["trace_id"])
	assert.Equal(t, float64(5), record["deal_id"])
	assert.Equal(t, "boom", record["err"])
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Info("hidden", nil)
	logger.Debug("hidden too", nil)
	assert.Zero(t, buf.Len())

	logger.Warn("shown", port.Fields{"b": 2, "a": 1})
	line := buf.String()
	assert.Contains(t, line, "shown")
	assert.Less(t, strings.Index(line, "a=1"), strings.Index(line, "b=2"))
}

func TestFluentAdapter(t *testing.T) {
	poster := &fakePoster{}
	logger := newFluentLoggerAdapter(poster, slog.LevelInfo)

	child := logger.WithFields(port.Fields{"component": "deals"})
	child.Debug("filtered", nil)
	child.Info("deal created", port.Fields{"deal_id": 1})
	child.Error("deal failed", errors.New("conflict"), nil)

	require.Len(t, poster.records, 2)
	assert.Equal(t, "info", poster.records[0].tag)
	assert.Equal(t, "deals", poster.records[0].data["component"])
	assert.Equal(t, 1, poster.records[0].data["deal_id"])
	assert.Equal(t, "deal created", poster.records[0].data["message"])

	assert.Equal(t, "error", poster.records[1].tag)
	assert.Equal(t, "conflict", poster.records[1].data["error"])

	// родитель не получил поля потомка
	logger.Warn("plain", nil)
	assert.NotContains(t, poster.records[2].data, "component")
}

func TestNewFluentLoggerAdapterRequiresClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, slog.LevelInfo)
	assert.Error(t, err)
}

type countingLogger struct {
	port.LoggerPort
	calls *int
}

func (c countingLogger) Info(msg string, fields port.Fields) { *c.calls++ }

func (c countingLogger) WithFields(fields port.Fields) port.LoggerPort { return c }

func TestMultiloggerAdapter(t *testing.T) {
	_, err := NewMultiloggerAdapter()
	assert.Error(t, err)

	var calls int
	single := countingLogger{calls: &calls}
	same, err := NewMultiloggerAdapter(nil, single)
	require.NoError(t, err)
	assert.Equal(t, single, same)

	multi, err := NewMultiloggerAdapter(single, single)
	require.NoError(t, err)
	multi.WithFields(port.Fields{"x": 1}).Info("twice", nil)
	assert.Equal(t, 2, calls)
}
